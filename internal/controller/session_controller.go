package controller

import (
	"bytes"
	"strings"

	"argovers-soil-be/internal/dto"
	"argovers-soil-be/internal/pkg/serverutils"
	"argovers-soil-be/internal/service"
	"argovers-soil-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Next(ctx *fiber.Ctx) error
	State(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Transcribe(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("start", c.Start)
	h.Post("next", c.Next)
	h.Post("transcribe", c.Transcribe)
	h.Get("state/:id", c.State)
	h.Delete(":id", c.Delete)
}

func (c *sessionController) Start(ctx *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if req.Language == "" {
		req.Language = store.LanguageEnglish
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Start(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start session", res))
}

// Next accepts either a JSON body or a multipart form with an "audio" file.
// Spoken turns are transcribed inside the turn by the service.
func (c *sessionController) Next(ctx *fiber.Ctx) error {
	var req dto.NextMessageRequest
	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		req.SessionID = ctx.FormValue("session_id")
		req.Message = ctx.FormValue("message")
		if fileHeader, err := ctx.FormFile("audio"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				return err
			}
			defer file.Close()

			var buf bytes.Buffer
			if _, err := buf.ReadFrom(file); err != nil {
				return err
			}
			req.Audio = &buf
			req.AudioFilename = fileHeader.Filename
		}
	} else if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Next(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process message", res))
}

func (c *sessionController) State(ctx *fiber.Ctx) error {
	res, err := c.sessionService.GetState(ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session state", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	if err := c.sessionService.Delete(ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

// Transcribe accepts a multipart "audio" file and returns the recognized
// text plus confidence. The client then submits the text through Next with
// the reported asr_confidence.
func (c *sessionController) Transcribe(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "audio file is required")
	}
	language := ctx.FormValue("language")

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		return err
	}

	res, err := c.sessionService.Transcribe(ctx.Context(), &buf, fileHeader.Filename, language)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success transcribe audio", res))
}
