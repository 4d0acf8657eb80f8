package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aniladanir/waitlist-sms-service/internal/mocks"
	"go.uber.org/mock/gomock"
)

func TestResolveKnownTrade(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockGenerator(ctrl)
	r := NewReplyResolver(gen, discardLogger())

	for _, in := range []string{"sparky", "  Sparky\n", "SPARKY"} {
		got := r.Resolve(context.Background(), in)
		if got.Source != SourceKeyword {
			t.Fatalf("Resolve(%q) source = %q, want keyword", in, got.Source)
		}
		want := "A sparky? Easy, chocolate is your flavour. Rich enough to power any switchboard."
		if got.Text != want {
			t.Fatalf("Resolve(%q) = %q, want %q", in, got.Text, want)
		}
	}
}

func TestResolveEveryTradeUsesFirstTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewReplyResolver(mocks.NewMockGenerator(ctrl), discardLogger())

	for _, keyword := range []string{"sparky", "electrician", "plumber", "carpenter", "builder", "painter"} {
		trade, ok := LookupTrade(keyword)
		if !ok {
			t.Fatalf("%q missing from trade table", keyword)
		}

		got := r.Resolve(context.Background(), keyword)
		if got.Text != trade.Replies()[0] {
			t.Fatalf("Resolve(%q) = %q, want first template %q", keyword, got.Text, trade.Replies()[0])
		}
		if !strings.Contains(got.Text, trade.Flavour) {
			t.Fatalf("reply %q does not mention flavour %q", got.Text, trade.Flavour)
		}
		if got.Text == FallbackReply {
			t.Fatalf("keyword %q fell back", keyword)
		}
	}
}

func TestTradeTableRepliesRender(t *testing.T) {
	for keyword, trade := range tradeFlavours {
		if keyword != strings.ToLower(keyword) {
			t.Fatalf("keyword %q is not lowercase", keyword)
		}
		for _, reply := range trade.Replies() {
			if strings.Contains(reply, "%!") {
				t.Fatalf("template for %q rendered badly: %q", keyword, reply)
			}
		}
	}
}

func TestResolveUnknownTradeGenerates(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockGenerator(ctrl)
	gen.EXPECT().Generate(gomock.Any(), FlavourInstruction, "roofer").Return("Roofers love lemon.", nil)

	got := NewReplyResolver(gen, discardLogger()).Resolve(context.Background(), "roofer")
	if got.Source != SourceGenerated || got.Text != "Roofers love lemon." {
		t.Fatalf("unexpected reply: %+v", got)
	}
}

func TestResolveNearMissGenerates(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockGenerator(ctrl)
	gen.EXPECT().Generate(gomock.Any(), FlavourInstruction, "sparky!").Return("Still chocolate.", nil)

	got := NewReplyResolver(gen, discardLogger()).Resolve(context.Background(), "sparky!")
	if got.Source != SourceGenerated {
		t.Fatalf("expected generated reply, got %+v", got)
	}
}

func TestResolveGenerationFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockGenerator(ctrl)
	gen.EXPECT().Generate(gomock.Any(), gomock.Any(), "roofer").Return("", errors.New("rate limited")).Times(1)

	got := NewReplyResolver(gen, discardLogger()).Resolve(context.Background(), "roofer")
	if got.Text != FallbackReply {
		t.Fatalf("got %q, want fallback", got.Text)
	}
	if got.Source != SourceFallback {
		t.Fatalf("source = %q, want fallback", got.Source)
	}
	if FallbackReply != "Sorry, I'm having trouble responding right now. Try again shortly." {
		t.Fatalf("fallback text changed: %q", FallbackReply)
	}
}

func TestResolveWithoutGenerator(t *testing.T) {
	got := NewReplyResolver(nil, discardLogger()).Resolve(context.Background(), "roofer")
	if got.Text != FallbackReply {
		t.Fatalf("got %q, want fallback", got.Text)
	}
}
