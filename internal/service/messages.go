package service

import (
	"fmt"
	"strings"
)

const defaultDisplayName = "mate"

// WelcomeMessages builds the sequence texted to a new signup.
func WelcomeMessages(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultDisplayName
	}

	return []string{
		fmt.Sprintf("Hey %s, you're on the waitlist! Thanks for signing up.", name),
		"We're brewing drinks made for people who work with their hands. Launch news lands here first.",
		"Quick one: reply with your trade (sparky, plumber, carpenter...) and we'll guess your favourite flavour.",
	}
}
