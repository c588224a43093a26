// Package vision provides the photo analyzer boundary: an OpenAI-compatible
// chat-completions client that submits a downscaled photo as a data URL and
// returns the model's inspection notes as free text, plus a deterministic
// stub provider for offline runs and a content-addressed disk cache that
// makes re-runs of the same photo set instant.
package vision
