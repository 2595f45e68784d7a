package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/voicify/voicify-api/internal/core/ports"
)

type TTSHandler struct {
	ttsService ports.TTSService
}

func NewTTSHandler(ttsService ports.TTSService) *TTSHandler {
	return &TTSHandler{ttsService: ttsService}
}

type convertRequest struct {
	Text     string `json:"text"     validate:"required"`
	Language string `json:"language"`
}

type convertResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	AudioURL string `json:"audioUrl"`
	Filename string `json:"filename"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

type historyResponse struct {
	Success bool                 `json:"success"`
	History []ports.HistoryEntry `json:"history"`
}

// Convert synthesizes speech from text and stores the result for the caller.
//
// @Summary      Convert text to speech
// @Tags         tts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      convertRequest  true  "Text and optional language code"
// @Success      200   {object}  convertResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/tts/convert [post]
func (h *TTSHandler) Convert(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req convertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	// Length and language checks live in the service so they hold for
	// every caller, not only this transport.
	result, err := h.ttsService.Convert(c.Request().Context(), userID, req.Text, req.Language)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, convertResponse{
		Success:  true,
		Message:  "Text converted to speech successfully",
		AudioURL: result.AudioURL,
		Filename: result.Filename,
		Text:     result.Preview,
		Language: result.Language,
	})
}

// Audio streams a stored artifact back to its owner.
//
// @Summary      Fetch synthesized audio
// @Tags         tts
// @Produce      audio/mpeg
// @Security     BearerAuth
// @Param        filename  path  string  true  "Artifact filename returned by convert"
// @Success      200  {file}    binary
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tts/audio/{filename} [get]
func (h *TTSHandler) Audio(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	rc, meta, err := h.ttsService.Fetch(c.Request().Context(), userID, c.Param("filename"))
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, meta.ID))
	return c.Stream(http.StatusOK, "audio/mpeg", rc)
}

// History lists the caller's most recent conversions.
//
// @Summary      Conversion history
// @Tags         tts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  historyResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/tts/history [get]
func (h *TTSHandler) History(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	entries, err := h.ttsService.History(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, historyResponse{Success: true, History: entries})
}
