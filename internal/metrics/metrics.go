package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ChatRequests  *prometheus.CounterVec
	ChatTokens    *prometheus.CounterVec
	NoteSummaries *prometheus.CounterVec
}

var (
	once   sync.Once
	global *Metrics
)

func Global() *Metrics {
	once.Do(func() {
		global = &Metrics{
			ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "llmchat",
				Name:      "chat_requests_total",
				Help:      "Total proxied chat completions by provider and outcome",
			}, []string{"provider", "outcome"}),
			ChatTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "llmchat",
				Name:      "chat_tokens_total",
				Help:      "Total tokens reported by upstream providers",
			}, []string{"provider"}),
			NoteSummaries: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "llmchat",
				Name:      "note_summaries_total",
				Help:      "Total background note summarizations by outcome",
			}, []string{"outcome"}),
		}
		prometheus.MustRegister(global.ChatRequests, global.ChatTokens, global.NoteSummaries)
	})
	return global
}
