package models

// Confidence derives a bounded heuristic score from the cumulative
// detected keywords and the current escalation step. Each distinct
// keyword is worth 15 points and each step 5, clamped to [0, 100].
// Callers only ever see the clamped value.
func Confidence(step int, detectedKeywords []string) int {
	if step < 0 {
		step = 0
	}
	c := len(detectedKeywords)*15 + step*5
	if c > 100 {
		return 100
	}
	return c
}
