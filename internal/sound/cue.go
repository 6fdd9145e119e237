// Package sound plays the quack cue through Ebitengine's audio context.
package sound

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
)

const (
	SampleRate = 44100
	Volume     = 0.5
)

// Cue is one decoded mp3 on a single player, so plays can never overlap.
type Cue struct {
	player *audio.Player
	logger *slog.Logger
}

// NewCue decodes mp3 data for ctx. The context must run at SampleRate.
func NewCue(ctx *audio.Context, data []byte, logger *slog.Logger) (*Cue, error) {
	if logger == nil {
		logger = slog.Default()
	}
	stream, err := mp3.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode cue: %w", err)
	}
	player, err := ctx.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("cue player: %w", err)
	}
	player.SetVolume(Volume)
	return &Cue{player: player, logger: logger}, nil
}

func (c *Cue) IsPlaying() bool {
	return c.player.IsPlaying()
}

// Play starts the cue from the beginning. It does nothing while already playing.
func (c *Cue) Play() {
	if c.player.IsPlaying() {
		return
	}
	if err := c.player.Rewind(); err != nil {
		c.logger.Debug("sound: rewind failed", "err", err)
		return
	}
	c.player.Play()
}

func (c *Cue) Close() error {
	return c.player.Close()
}
