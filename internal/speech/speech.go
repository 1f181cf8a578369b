// Package speech turns announcement texts into audio. Every Speaker returns
// immediately; playback happens in the background.
package speech

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"

	"interval_timer/internal/logger"
)

// Speaker is handed each announcement exactly once.
type Speaker interface {
	Speak(text string)
}

// Nop discards announcements.
type Nop struct{}

func (Nop) Speak(string) {}

// runFunc executes one utterance and blocks until it finishes.
type runFunc func(ctx context.Context, name string, args ...string) error

func execRun(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// textPlaceholder is replaced by the announcement in configured args. When
// no arg contains it, the text is appended as the last argument.
const textPlaceholder = "{text}"

const defaultUtteranceTimeout = 10 * time.Second

// CommandSpeaker speaks through an external TTS program such as espeak or say.
// Utterances are queued and played one at a time so they never overlap; when
// the queue is full the newest announcement is dropped.
type CommandSpeaker struct {
	command string
	args    []string
	log     *logger.Logger
	run     runFunc
	timeout time.Duration

	queue chan string
	once  sync.Once
	done  chan struct{}
}

// NewCommandSpeaker starts the playback goroutine. Close stops it.
func NewCommandSpeaker(command string, args []string, log *logger.Logger) *CommandSpeaker {
	return newCommandSpeaker(command, args, log, execRun)
}

func newCommandSpeaker(command string, args []string, log *logger.Logger, run runFunc) *CommandSpeaker {
	if log == nil {
		log = logger.Nop()
	}
	s := &CommandSpeaker{
		command: command,
		args:    append([]string(nil), args...),
		log:     log,
		run:     run,
		timeout: defaultUtteranceTimeout,
		queue:   make(chan string, 16),
		done:    make(chan struct{}),
	}
	go s.loop()
	return s
}

// Speak enqueues text without blocking.
func (s *CommandSpeaker) Speak(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	select {
	case <-s.done:
	case s.queue <- text:
	default:
		s.log.Warnw("speech_queue_full", "text", text)
	}
}

// Close stops playback after the current utterance.
func (s *CommandSpeaker) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *CommandSpeaker) loop() {
	for {
		select {
		case <-s.done:
			return
		case text := <-s.queue:
			s.say(text)
		}
	}
}

func (s *CommandSpeaker) say(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.run(ctx, s.command, buildArgs(s.args, text)...); err != nil {
		s.log.Errorw("speech_command_failed", "err", err, "command", s.command, "text", text)
		return
	}
	s.log.Debugw("speech_spoken", "text", text)
}

func buildArgs(args []string, text string) []string {
	out := make([]string, 0, len(args)+1)
	replaced := false
	for _, a := range args {
		if strings.Contains(a, textPlaceholder) {
			a = strings.ReplaceAll(a, textPlaceholder, text)
			replaced = true
		}
		out = append(out, a)
	}
	if !replaced {
		out = append(out, text)
	}
	return out
}

// Switch forwards to a speaker that can be replaced at runtime, e.g. when
// the speech settings are reloaded. A replaced speaker is closed if it has
// a Close method.
type Switch struct {
	mu    sync.RWMutex
	inner Speaker
}

func NewSwitch(s Speaker) *Switch {
	if s == nil {
		s = Nop{}
	}
	return &Switch{inner: s}
}

func (w *Switch) Speak(text string) {
	w.mu.RLock()
	s := w.inner
	w.mu.RUnlock()
	s.Speak(text)
}

// Swap installs next and closes the previous speaker.
func (w *Switch) Swap(next Speaker) {
	if next == nil {
		next = Nop{}
	}
	w.mu.Lock()
	prev := w.inner
	w.inner = next
	w.mu.Unlock()

	if c, ok := prev.(interface{ Close() }); ok {
		c.Close()
	}
}

// Close closes the current speaker. Later announcements are discarded.
func (w *Switch) Close() {
	w.Swap(Nop{})
}
