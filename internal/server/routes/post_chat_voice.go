package routes

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"parrot/internal/fault"
	"parrot/internal/server/middleware"
	"parrot/pkg/logger"
)

// unintelligibleMessage is returned with status 200 when the recording
// produced no usable transcript.
const unintelligibleMessage = "Could not understand the audio. Please try again."

// ChatVoiceHandler transcodes a voice recording, transcribes it and runs
// the transcript through the chat model
func ChatVoiceHandler(c echo.Context) error {
	type chatVoiceResponse struct {
		Text          string `json:"text"`
		Model         string `json:"model"`
		Transcription string `json:"transcription"`
	}

	upload, err := c.FormFile("audio")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "No audio file provided",
		})
	}

	src, err := upload.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Could not open audio file",
		})
	}
	defer src.Close()

	audio, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Could not read audio file",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	wav, err := app.Transcoder.ToWAV(ctx, audio)
	if err != nil {
		logger.Error("Failed to transcode audio", "err", err)
		return faultJSON(c, err)
	}

	transcript, err := app.AIClient.GenerateAudioTranscription(ctx, wav, c.FormValue("language"))
	if err != nil {
		logger.Error("Failed to transcribe audio", "err", err)
		return faultJSON(c, fault.Wrap(fault.KindServiceUnavailable, err,
			"Failed to transcribe audio"))
	}

	modelName := c.FormValue("model_name")
	if strings.TrimSpace(transcript) == "" {
		return c.JSON(http.StatusOK, chatVoiceResponse{
			Text:          unintelligibleMessage,
			Model:         app.Generator.ResolveModel(modelName),
			Transcription: "",
		})
	}

	result, err := app.Generator.Generate(ctx, transcript, modelName)
	if err != nil {
		logger.Error("Failed to generate chat response", "err", err)
		return faultJSON(c, err)
	}

	return c.JSON(http.StatusOK, chatVoiceResponse{
		Text:          result.Text,
		Model:         result.Model,
		Transcription: transcript,
	})
}
