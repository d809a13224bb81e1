package wizard

import "testing"

func TestScheduleOrder(t *testing.T) {
	if First() != ParamName {
		t.Errorf("First() = %s, want name", First())
	}
	if TotalSteps() != 9 {
		t.Errorf("TotalSteps() = %d, want 9", TotalSteps())
	}

	// Walking Next from the first parameter visits every step exactly once
	visited := []Parameter{First()}
	for p := First(); p != ""; p = Next(p) {
		if next := Next(p); next != "" {
			visited = append(visited, next)
		}
	}
	if len(visited) != TotalSteps() {
		t.Fatalf("walk visited %d steps, want %d", len(visited), TotalSteps())
	}
	for i, p := range ParameterOrder {
		if visited[i] != p {
			t.Errorf("step %d = %s, want %s", i, visited[i], p)
		}
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		param Parameter
		want  Parameter
	}{
		{ParamName, ParamColor},
		{ParamPH, ParamSoilType},
		{ParamFertilizerUsed, ""},
		{Parameter("bogus"), ""},
	}
	for _, tt := range tests {
		if got := Next(tt.param); got != tt.want {
			t.Errorf("Next(%s) = %q, want %q", tt.param, got, tt.want)
		}
	}
}

func TestIndex(t *testing.T) {
	if got := Index(ParamName); got != 1 {
		t.Errorf("Index(name) = %d, want 1", got)
	}
	if got := Index(ParamFertilizerUsed); got != 9 {
		t.Errorf("Index(fertilizer_used) = %d, want 9", got)
	}
	if got := Index(Parameter("bogus")); got != 0 {
		t.Errorf("Index(bogus) = %d, want 0", got)
	}
	if Known(Parameter("bogus")) {
		t.Error("Known(bogus) = true, want false")
	}
}

func TestQuestion(t *testing.T) {
	tests := []struct {
		param    Parameter
		language string
		want     string
	}{
		{ParamName, "en", "Welcome! What is your name?"},
		{ParamName, "hi", "स्वागत है! आपका नाम क्या है?"},
		{ParamColor, "en", "What is the color of your soil?"},
		{Parameter("bogus"), "en", "Please provide information."},
	}
	for _, tt := range tests {
		if got := Question(tt.param, tt.language); got != tt.want {
			t.Errorf("Question(%s, %s) = %q, want %q", tt.param, tt.language, got, tt.want)
		}
	}
}
