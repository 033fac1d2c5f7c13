package models

import "github.com/google/uuid"

// Exercise is a guided wellness exercise shown in the app's library.
type Exercise struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Duration          string    `json:"duration"`
	Category          string    `json:"category"`
	VisualizationType string    `json:"visualization_type"` // "LIST" | "BREATHING" | "TIMER"
	Steps             []string  `json:"steps"`
}

type CreateExerciseRequest struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Duration          string   `json:"duration"`
	Category          string   `json:"category"`
	VisualizationType string   `json:"visualization_type"`
	Steps             []string `json:"steps"`
}

type Soundscape struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	URL  string    `json:"url"`
}

type CreateSoundscapeRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
