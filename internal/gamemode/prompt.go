package gamemode

import (
	"strings"
	"unicode/utf8"
)

const (
	PromptTitle = "So you won't feed me?"
	Deflection  = "Try being nice, maybe?"
)

// Rule maps a trigger phrase to a reply. Polite rules end the program.
type Rule struct {
	Trigger string
	Reply   string
	Polite  bool
}

// DefaultRules are checked in order; the first substring match wins.
var DefaultRules = []Rule{
	{Trigger: "please", Reply: "Fine, I’ll leave... but next time, don’t make me ask!", Polite: true},
	{Trigger: "pls", Reply: "Spell it out next time, maybe? I’ll let this slide.", Polite: true},
	{Trigger: "poda tharave", Reply: "Aa tone nalla irunnu... valare cute!"},
}

type Response struct {
	Text    string
	Matched bool
	Polite  bool
}

type Responder struct {
	rules []Rule
}

func NewResponder(rules []Rule) *Responder {
	return &Responder{rules: rules}
}

func DefaultResponder() *Responder {
	return NewResponder(DefaultRules)
}

// Reply matches input case-insensitively against the rule table.
func (r *Responder) Reply(input string) Response {
	in := strings.ToLower(input)
	for _, rule := range r.rules {
		if strings.Contains(in, strings.ToLower(rule.Trigger)) {
			return Response{Text: rule.Reply, Matched: true, Polite: rule.Polite}
		}
	}
	return Response{Text: Deflection}
}

// Prompt is the dialog shown once chaos peaks. It has no close control; only a
// polite answer ends it, by calling onPolite.
type Prompt struct {
	responder *Responder
	onPolite  func()

	input string
	reply string
}

func NewPrompt(r *Responder, onPolite func()) *Prompt {
	return &Prompt{responder: r, onPolite: onPolite}
}

func (p *Prompt) Input() string { return p.input }
func (p *Prompt) Reply() string { return p.reply }

// Type appends runes, dropping control characters. Input length is unbounded;
// the text box scrolls.
func (p *Prompt) Type(rs ...rune) {
	var b strings.Builder
	b.WriteString(p.input)
	for _, r := range rs {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	p.input = b.String()
}

// Backspace removes the last rune.
func (p *Prompt) Backspace() {
	if p.input == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(p.input)
	p.input = p.input[:len(p.input)-size]
}

// Submit answers the current input. The dialog stays open and can be answered
// again unless the reply was polite.
func (p *Prompt) Submit() Response {
	resp := p.responder.Reply(p.input)
	p.reply = resp.Text
	if resp.Polite && p.onPolite != nil {
		p.onPolite()
	}
	return resp
}
