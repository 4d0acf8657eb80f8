package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aniladanir/waitlist-sms-service/internal/generation"
	"github.com/aniladanir/waitlist-sms-service/internal/metrics"
)

const (
	FlavourInstruction = "You work for a drinks brand that texts tradespeople. " +
		"The user will tell you their trade. Guess their favourite drink flavour based on the stated trade " +
		"and answer in one short, playful SMS sentence."

	FallbackReply = "Sorry, I'm having trouble responding right now. Try again shortly."
)

type ReplySource string

const (
	SourceKeyword   ReplySource = "keyword"
	SourceGenerated ReplySource = "generated"
	SourceFallback  ReplySource = "fallback"
)

type Reply struct {
	Text   string
	Source ReplySource
}

// TradeFlavour maps a trade to its flavour. Each template takes the flavour as its only argument.
type TradeFlavour struct {
	Flavour   string
	Templates []string
}

// Replies renders every template of the entry.
func (t TradeFlavour) Replies() []string {
	out := make([]string, len(t.Templates))
	for i, tmpl := range t.Templates {
		out[i] = fmt.Sprintf(tmpl, t.Flavour)
	}
	return out
}

var tradeFlavours = map[string]TradeFlavour{
	"sparky": {
		Flavour: "chocolate",
		Templates: []string{
			"A sparky? Easy, %s is your flavour. Rich enough to power any switchboard.",
			"Sparkies run on %s. Consider it wired in.",
		},
	},
	"electrician": {
		Flavour:   "chocolate",
		Templates: []string{"An electrician? We're calling it: %s, smooth current all day."},
	},
	"plumber": {
		Flavour:   "salted caramel",
		Templates: []string{"A plumber? It has to be %s. It just flows."},
	},
	"carpenter": {
		Flavour: "vanilla",
		Templates: []string{
			"A carpenter? Classic %s. Clean joins, no fuss.",
			"Measure twice, sip once. Carpenters are %s people.",
		},
	},
	"builder": {
		Flavour:   "iced coffee",
		Templates: []string{"A builder? You're an %s type, strong foundations start early."},
	},
	"painter": {
		Flavour:   "strawberry",
		Templates: []string{"A painter? Go %s, bright and bold like a fresh coat."},
	},
}

// LookupTrade returns the table entry for an already normalized keyword.
func LookupTrade(keyword string) (TradeFlavour, bool) {
	t, ok := tradeFlavours[keyword]
	return t, ok
}

type ReplyResolver interface {
	Resolve(ctx context.Context, incoming string) Reply
}

type replyResolver struct {
	generator generation.Generator
	logger    *slog.Logger
}

func NewReplyResolver(generator generation.Generator, logger *slog.Logger) ReplyResolver {
	return &replyResolver{
		generator: generator,
		logger:    logger,
	}
}

// Resolve answers an inbound text. Known trades get the first template of their
// entry; anything else is generated, falling back to FallbackReply on error.
func (r *replyResolver) Resolve(ctx context.Context, incoming string) Reply {
	keyword := strings.ToLower(strings.TrimSpace(incoming))

	if trade, ok := LookupTrade(keyword); ok && len(trade.Templates) > 0 {
		metrics.Replies.WithLabelValues(string(SourceKeyword)).Inc()
		return Reply{Text: trade.Replies()[0], Source: SourceKeyword}
	}

	if r.generator == nil {
		metrics.Replies.WithLabelValues(string(SourceFallback)).Inc()
		return Reply{Text: FallbackReply, Source: SourceFallback}
	}

	text, err := r.generator.Generate(ctx, FlavourInstruction, incoming)
	if err != nil {
		r.logger.Error("failed to generate reply", "error", err.Error())
		metrics.Replies.WithLabelValues(string(SourceFallback)).Inc()
		return Reply{Text: FallbackReply, Source: SourceFallback}
	}

	metrics.Replies.WithLabelValues(string(SourceGenerated)).Inc()
	return Reply{Text: text, Source: SourceGenerated}
}
