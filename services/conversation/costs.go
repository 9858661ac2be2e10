package conversation

import (
	"mentorline/config"
	"mentorline/models"
)

// PricingTable prices the four usage meters independently. Token prices are
// per 1K tokens. Loaded from configuration; not part of the invariant surface.
type PricingTable struct {
	STTPerSecond   float64
	TTSPerChar     float64
	LLMInputPer1K  float64
	LLMOutputPer1K float64
}

// PricingFromConfig builds the pricing table from the loaded configuration.
func PricingFromConfig() PricingTable {
	return PricingTable{
		STTPerSecond:   config.AppConfig.PriceSTTPerSecond,
		TTSPerChar:     config.AppConfig.PriceTTSPerChar,
		LLMInputPer1K:  config.AppConfig.PriceLLMInputPer1K,
		LLMOutputPer1K: config.AppConfig.PriceLLMOutputPer1K,
	}
}

// Price converts accumulated meters into a cost breakdown. Each meter is
// priced independently and the four parts summed.
func (p PricingTable) Price(m models.CostMeters) models.CostBreakdown {
	b := models.CostBreakdown{
		SpeechToText: m.SpeechSeconds * p.STTPerSecond,
		TextToSpeech: float64(m.SynthesizedChars) * p.TTSPerChar,
		LLMInput:     float64(m.LLMInputTokens) / 1000 * p.LLMInputPer1K,
		LLMOutput:    float64(m.LLMOutputTokens) / 1000 * p.LLMOutputPer1K,
	}
	b.Total = b.SpeechToText + b.TextToSpeech + b.LLMInput + b.LLMOutput
	return b
}
