package voice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/i474232898/weather-assistant/internal/command"
	"github.com/i474232898/weather-assistant/internal/weather"
)

// ErrEmptyCommand is returned for blank utterances.
var ErrEmptyCommand = errors.New("please enter a voice command")

// CurrentFetcher is the slice of the weather gateway the assistant needs.
type CurrentFetcher interface {
	FetchCurrent(ctx context.Context, coord weather.Coordinate) (weather.Observation, error)
}

// Reply is the assistant's answer to one command.
type Reply struct {
	ID              string               `json:"id"`
	Topic           command.Topic        `json:"topic"`
	Utterance       string               `json:"utterance"`
	Acknowledgement string               `json:"acknowledgement"`
	Observation     *weather.Observation `json:"observation,omitempty"`
	Summary         string               `json:"summary,omitempty"`
	Recommendations []string             `json:"recommendations,omitempty"`
}

// Assistant answers typed "voice" commands: it classifies the command and, for
// weather topics, fetches current conditions and renders them as text.
type Assistant struct {
	interpreter *command.Interpreter
	weather     CurrentFetcher
	defaultAt   weather.Coordinate
}

// NewAssistant creates an Assistant. defaultAt is used when a caller has no position.
func NewAssistant(interpreter *command.Interpreter, fetcher CurrentFetcher, defaultAt weather.Coordinate) *Assistant {
	return &Assistant{
		interpreter: interpreter,
		weather:     fetcher,
		defaultAt:   defaultAt,
	}
}

// DefaultCoordinate returns the coordinate used when a command carries none.
func (a *Assistant) DefaultCoordinate() weather.Coordinate {
	return a.defaultAt
}

// Ask handles one command at coord.
func (a *Assistant) Ask(ctx context.Context, utterance string, coord weather.Coordinate) (Reply, error) {
	if strings.TrimSpace(utterance) == "" {
		return Reply{}, ErrEmptyCommand
	}

	c := a.interpreter.Classify(utterance)
	reply := Reply{
		ID:              uuid.NewString(),
		Topic:           c.Topic,
		Utterance:       c.Utterance,
		Acknowledgement: c.Acknowledgement,
	}
	log.Printf("DEBUG: voice: command %s classified as %s", reply.ID, c.Topic)

	if c.Topic == command.TopicGeneral {
		return reply, nil
	}

	obs, err := a.weather.FetchCurrent(ctx, coord)
	if err != nil {
		return Reply{}, fmt.Errorf("answer %s command: %w", c.Topic, err)
	}

	reply.Observation = &obs
	reply.Summary = a.interpreter.Render(obs)
	reply.Recommendations = a.interpreter.BuildRecommendations(obs)
	return reply, nil
}

// Describe fetches current conditions at coord and renders them without a command.
func (a *Assistant) Describe(ctx context.Context, coord weather.Coordinate) (weather.Observation, string, []string, error) {
	obs, err := a.weather.FetchCurrent(ctx, coord)
	if err != nil {
		return weather.Observation{}, "", nil, err
	}
	return obs, a.interpreter.Render(obs), a.interpreter.BuildRecommendations(obs), nil
}
