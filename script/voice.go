// Package script runs the pet's voice script, a tengo program that decides
// what the pet says in each situation.
package script

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Line kinds understood by the voice script.
const (
	Greeting      = "greeting"
	Thinking      = "thinking"
	ChatFailed    = "chat_failed"
	Timeout       = "timeout"
	Disabled      = "disabled"
	ObservePrompt = "observe_prompt"
	Observation   = "observation"
	Recall        = "recall"
	Reply         = "reply"
	User          = "user"
)

const dispatch = `
__out := line(__kind, __ctx)
`

var fallbacks = map[string]string{
	Greeting:      "{name} is here!",
	Thinking:      "{name}: thinking...",
	ChatFailed:    "{name}: Sorry, something went wrong...",
	Timeout:       "{name}: Sorry, I got stuck... Please try again later.",
	Disabled:      "{name}: Chat is not enabled.",
	ObservePrompt: "What is the user doing? Guess from the screenshot.",
	Observation:   "{name}: (I just peeked at your screen)\n\n{result}\n\nWant to chat about it?",
	Recall:        "{name}: Last time I noticed you were {result}...",
	Reply:         "{name}: {result}",
	User:          "You: {result}",
}

// Voice renders lines. It is not safe for concurrent use.
type Voice struct {
	name     string
	compiled *tengo.Compiled
	logger   *slog.Logger
}

// NewVoice compiles src. A nil or empty src gives a Voice that only speaks
// the built-in lines.
func NewVoice(src []byte, name string, logger *slog.Logger) (*Voice, error) {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Voice{name: name, logger: logger}
	if len(strings.TrimSpace(string(src))) == 0 {
		return v, nil
	}
	if err := v.Reload(src); err != nil {
		return v, err
	}
	return v, nil
}

// Reload swaps in a new script. On error the previous script stays active.
func (v *Voice) Reload(src []byte) error {
	s := tengo.NewScript([]byte(string(src) + "\n" + dispatch))
	_ = s.Add("__kind", "")
	_ = s.Add("__ctx", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return fmt.Errorf("compiling voice script: %w", err)
	}
	v.compiled = compiled
	return nil
}

func (v *Voice) SetName(name string) {
	v.name = name
}

func (v *Voice) Name() string {
	return v.name
}

// Line renders kind. result is substituted where the line quotes another
// text, such as an AI reply or an observation.
func (v *Voice) Line(kind, result string) string {
	if v == nil {
		return expand(fallbacks[kind], "", result)
	}
	if out := v.run(kind, result); out != "" {
		return out
	}
	return expand(fallbacks[kind], v.name, result)
}

func (v *Voice) run(kind, result string) string {
	if v.compiled == nil {
		return ""
	}
	ctx := map[string]any{"name": v.name, "result": result}
	if err := v.compiled.Set("__kind", kind); err != nil {
		v.logger.Warn("voice script", "kind", kind, "err", err)
		return ""
	}
	if err := v.compiled.Set("__ctx", ctx); err != nil {
		v.logger.Warn("voice script", "kind", kind, "err", err)
		return ""
	}
	if err := v.compiled.Run(); err != nil {
		v.logger.Warn("voice script", "kind", kind, "err", err)
		return ""
	}
	if !v.compiled.IsDefined("__out") {
		return ""
	}
	return strings.TrimSpace(v.compiled.Get("__out").String())
}

func expand(tmpl, name, result string) string {
	return strings.NewReplacer("{name}", name, "{result}", result).Replace(tmpl)
}
