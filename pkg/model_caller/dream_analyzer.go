package model_caller

import (
	"context"
	"fmt"
)

const dreamAnalysisPrompt = `You are an experienced dream interpreter drawing on psychology and symbolism.
Given the description of a dream:
1. Identify the main symbols and what they commonly represent.
2. Describe the emotions the dream suggests.
3. Offer a possible interpretation connected to the dreamer's waking life.
Answer in the language of the description, warmly and concisely, in at most three short paragraphs.
Do not claim certainty and do not give medical advice.`

// DreamAnalyzer interprets dream descriptions with a chat model
type DreamAnalyzer struct {
	caller  *ModelCaller
	limiter *ConcurrencyLimiter
	options CallOptions
}

// NewDreamAnalyzer creates an analyzer using DefaultCallOptions. limiter may
// be nil for unbounded concurrency.
func NewDreamAnalyzer(caller *ModelCaller, limiter *ConcurrencyLimiter) *DreamAnalyzer {
	return &DreamAnalyzer{caller: caller, limiter: limiter, options: DefaultCallOptions}
}

// AnalyzeDream returns an interpretation of the dream described by prompt
func (a *DreamAnalyzer) AnalyzeDream(ctx context.Context, prompt string) (string, error) {
	messages := []Message{
		{Role: "system", Content: dreamAnalysisPrompt},
		{Role: "user", Content: fmt.Sprintf("Dream description: %s", prompt)},
	}
	if a.limiter == nil {
		return a.caller.Call(ctx, messages, &a.options)
	}
	return a.caller.CallWithConcurrencyLimit(ctx, a.limiter, a.caller.Model(), messages, &a.options)
}
