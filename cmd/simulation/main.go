package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:8001/api"

// Simplified DTOs for the script
type startResponse struct {
	Data struct {
		SessionID string `json:"session_id"`
		Question  string `json:"question"`
	} `json:"data"`
}

type nextRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type nextResponse struct {
	Data struct {
		Parameter  string `json:"parameter"`
		Question   string `json:"question"`
		HelperText string `json:"helper_text"`
		IsComplete bool   `json:"is_complete"`
		HelperMode bool   `json:"helper_mode"`
		StepNumber int    `json:"step_number"`
		TotalSteps int    `json:"total_steps"`
	} `json:"data"`
}

func main() {
	fmt.Println("=== Soil Wizard Simulation Client ===")

	sessionID, question, err := startSession("en")
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	color.Cyan("Session: %s", sessionID)
	color.Yellow("BOT: %s", question)

	turns := []string{
		"John",
		"black soil",
		"I don't know",
		"wet",
		"earthy",
		"7.2",
		"clay",
		"yes, many",
		"Sonipat village, Haryana",
		"urea and compost",
	}

	for _, text := range turns {
		color.Green("USER: %s", text)

		start := time.Now()
		res, err := sendNext(sessionID, text)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Error: %v", err)
			continue
		}

		if res.Data.HelperMode {
			color.Magenta("BOT (guidance): %s", res.Data.HelperText)
		} else if res.Data.IsComplete {
			color.Cyan("BOT: survey complete after step %d/%d", res.Data.StepNumber, res.Data.TotalSteps)
			break
		} else {
			color.Yellow("BOT [%d/%d]: %s", res.Data.StepNumber, res.Data.TotalSteps, res.Data.Question)
		}
		fmt.Printf("  (took %s)\n", elapsed)
	}
}

func startSession(language string) (string, string, error) {
	payload, _ := json.Marshal(map[string]string{"language": language})
	resp, err := http.Post(baseURL+"/session/v1/start", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var parsed startResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", "", err
	}
	return parsed.Data.SessionID, parsed.Data.Question, nil
}

func sendNext(sessionID, message string) (*nextResponse, error) {
	payload, _ := json.Marshal(nextRequest{SessionID: sessionID, Message: message})
	resp, err := http.Post(baseURL+"/session/v1/next", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var parsed nextResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}
