package extractor

import "voice-sentiment-go/internal/types"

type prompt struct {
	stage       types.StageName
	system      string
	userPrefix  string
	temperature float32
	maxTokens   int
	failPrefix  string
}

var summaryPrompt = prompt{
	stage:       types.StageSummarization,
	system:      "You are a helpful assistant that analyzes text. Provide a brief analysis of the user's message.",
	userPrefix:  "Analyze this text: ",
	temperature: 0.7,
	maxTokens:   150,
	failPrefix:  "Error processing with Llama: ",
}

var sentimentPrompt = prompt{
	stage:       types.StageSentiment,
	system:      "You are a sentiment analysis expert. Analyze the user's message and only reply with one of these words: Positive, Negative, or Neutral. Do not include any other text.",
	userPrefix:  "Analyze this message: ",
	temperature: 0.2,
	maxTokens:   20,
	failPrefix:  "Error analyzing sentiment: ",
}
