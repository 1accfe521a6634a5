package llm

import (
	"sync"
)

// ModelPrice is USD per 1M tokens.
type ModelPrice struct {
	Input  float64
	Output float64
}

// pricing covers the models the pipeline runs. Unknown models cost zero.
var pricing = map[string]ModelPrice{
	"gemini-2.5-pro":          {Input: 1.25, Output: 10.00},
	"gemini-2.5-flash":        {Input: 0.30, Output: 2.50},
	"gemini-2.5-flash-lite":   {Input: 0.10, Output: 0.40},
	"gemini-2.0-flash":        {Input: 0.10, Output: 0.40},
	"claude-sonnet-4-0":       {Input: 3.00, Output: 15.00},
	"claude-3-5-haiku-latest": {Input: 0.80, Output: 4.00},
}

// PriceFor looks up the price table for a model id.
func PriceFor(model string) (ModelPrice, bool) {
	p, ok := pricing[model]
	return p, ok
}

// CostMeter accumulates token usage and dollar cost across calls.
type CostMeter struct {
	mu      sync.Mutex
	inTok   int64
	outTok  int64
	costUSD float64
	byModel map[string]float64
}

func NewCostMeter() *CostMeter {
	return &CostMeter{byModel: make(map[string]float64)}
}

// Add records one call's usage under the given model id.
func (m *CostMeter) Add(model string, inputTokens, outputTokens int64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inTok += inputTokens
	m.outTok += outputTokens
	p := pricing[model]
	c := float64(inputTokens)/1e6*p.Input + float64(outputTokens)/1e6*p.Output
	m.costUSD += c
	if m.byModel == nil {
		m.byModel = make(map[string]float64)
	}
	m.byModel[model] += c
}

// TotalUSD returns the accumulated cost.
func (m *CostMeter) TotalUSD() float64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.costUSD
}

// Tokens returns total input and output token counts.
func (m *CostMeter) Tokens() (in, out int64) {
	if m == nil {
		return 0, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inTok, m.outTok
}

// ByModel returns a copy of the per-model cost breakdown.
func (m *CostMeter) ByModel() map[string]float64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64, len(m.byModel))
	for k, v := range m.byModel {
		out[k] = v
	}
	return out
}
