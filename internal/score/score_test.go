package score

import "testing"

func TestAnalyzeEmptyText(t *testing.T) {
	m := Analyze("")
	if m != (WaveMetrics{}) {
		t.Fatalf("empty text must yield zero metrics, got %+v", m)
	}
}

func TestAnalyzeVariedText(t *testing.T) {
	m := Analyze("The tide rises. The tide falls. Gulls wheel over the harbor wall.")

	if m.Words == 0 || m.Sentences != 3 {
		t.Fatalf("token counts off: %+v", m)
	}
	if m.LexicalDiversity <= 0 || m.LexicalDiversity > 1 {
		t.Errorf("diversity out of range: %v", m.LexicalDiversity)
	}
	if m.Coherence < 0 || m.Coherence > 1 {
		t.Errorf("coherence out of range: %v", m.Coherence)
	}
}

func TestRepetitionDetected(t *testing.T) {
	repeated := Analyze("go go go go go")
	varied := Analyze("tide gull harbor wall light")

	if repeated.Repetition != 1 {
		t.Errorf("all-adjacent repeats should score 1, got %v", repeated.Repetition)
	}
	if varied.Repetition != 0 {
		t.Errorf("no adjacent repeats should score 0, got %v", varied.Repetition)
	}
	if repeated.Coherence >= varied.Coherence {
		t.Errorf("repetition must cost coherence: %v >= %v", repeated.Coherence, varied.Coherence)
	}
}

func TestDiversityOfUniqueWords(t *testing.T) {
	m := Analyze("one two three four")
	if m.LexicalDiversity != 1 {
		t.Fatalf("all-unique words should have diversity 1, got %v", m.LexicalDiversity)
	}
}

func TestUniformSentencesScoreFullRhythm(t *testing.T) {
	m := Analyze("one two three. four five six. seven eight nine.")
	if m.Rhythm != 1 {
		t.Fatalf("uniform sentence lengths should score rhythm 1, got %v", m.Rhythm)
	}
}
