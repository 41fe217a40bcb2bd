package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Joseph3331/Layman-law/config"
	"github.com/Joseph3331/Layman-law/model"
	"github.com/Joseph3331/Layman-law/pkg/logger"
	"github.com/Joseph3331/Layman-law/service"
	"github.com/gin-gonic/gin"
)

// Prompt caps: a hard prefix cut, not a summarization.
const (
	singleDocPromptChars = 3000
	comparePromptChars   = 2000
)

// modelErrorPrefix marks a degraded payload: when the remote call fails
// after a request already validated, the failure is rendered inside the
// normal success-shaped response instead of an HTTP error.
const modelErrorPrefix = "⚠️ Error calling model: "

type DocumentHandler struct {
	cfg       *config.Config
	inference service.Completer
	archive   service.Archiver
}

func NewDocumentHandler(cfg *config.Config, inference service.Completer, archive service.Archiver) *DocumentHandler {
	return &DocumentHandler{
		cfg:       cfg,
		inference: inference,
		archive:   archive,
	}
}

// Simplify handles POST /simplify
func (h *DocumentHandler) Simplify(c *gin.Context) {
	text, ok := h.extractUpload(c, "file")
	if !ok {
		return
	}

	prompt := fmt.Sprintf("Simplify the following legal text into plain English. Keep it short and sectioned.\n\n%s",
		truncateRunes(text, singleDocPromptChars))
	simplified := h.complete(c, "", prompt)

	c.JSON(http.StatusOK, gin.H{"simplified": simplified})
}

// Extract handles POST /extract
func (h *DocumentHandler) Extract(c *gin.Context) {
	text, ok := h.extractUpload(c, "file")
	if !ok {
		return
	}

	prompt := fmt.Sprintf("Extract the key clauses from the following contract and return a JSON object with the keys %s. Each value must be a short plain-English summary of that clause.\n\n%s",
		strings.Join(model.ClauseKeys, ", "),
		truncateRunes(text, singleDocPromptChars))
	reply := h.complete(c, "You are a legal assistant that extracts contract clauses as JSON.", prompt)

	c.JSON(http.StatusOK, gin.H{"clauses": service.NormalizeClauses(reply)})
}

// Risks handles POST /risks
func (h *DocumentHandler) Risks(c *gin.Context) {
	text, ok := h.extractUpload(c, "file")
	if !ok {
		return
	}

	prompt := fmt.Sprintf("Analyze the following contract for risky clauses. Return a JSON array of objects with the keys clause, severity (Red, Yellow or Green) and details.\n\n%s",
		truncateRunes(text, singleDocPromptChars))
	reply := h.complete(c, "You are a legal assistant that rates contract risks.", prompt)

	c.JSON(http.StatusOK, gin.H{"risks": service.NormalizeRisks(reply)})
}

// Compare handles POST /compare
func (h *DocumentHandler) Compare(c *gin.Context) {
	text1, ok := h.extractUpload(c, "file1")
	if !ok {
		return
	}
	text2, ok := h.extractUpload(c, "file2")
	if !ok {
		return
	}

	prompt := fmt.Sprintf("Compare the following two contracts and list the key differences between them.\n\nContract 1:\n%s\n\nContract 2:\n%s",
		truncateRunes(text1, comparePromptChars),
		truncateRunes(text2, comparePromptChars))
	differences := h.complete(c, "You are a legal assistant that compares contracts.", prompt)

	c.JSON(http.StatusOK, gin.H{"differences": differences})
}

// QA handles POST /qa. The question may arrive as a form field or as a
// JSON body field; both behave the same.
func (h *DocumentHandler) QA(c *gin.Context) {
	text, ok := h.extractUpload(c, "file")
	if !ok {
		return
	}

	question := c.PostForm("question")
	if question == "" {
		var body struct {
			Question string `json:"question"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			question = body.Question
		}
	}
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No question provided"})
		return
	}

	prompt := fmt.Sprintf("Answer the question using only the contract text below.\n\nContract:\n%s\n\nQuestion: %s",
		truncateRunes(text, singleDocPromptChars), question)
	answer := h.complete(c, "You are a legal assistant that answers questions about contracts.", prompt)

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// Health handles GET /health. It never dials the remote service.
func (h *DocumentHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":       "Backend is running!",
		"status":        "success",
		"api_connected": true,
		"model":         h.cfg.Inference.Model,
	})
}

// extractUpload runs the shared validation gates for a file-accepting
// endpoint: upload present, filename non-empty, extension allowed, text
// extractable. It writes the error response itself and returns ok=false
// when any gate fails.
func (h *DocumentHandler) extractUpload(c *gin.Context, field string) (string, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return "", false
	}
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty filename"})
		return "", false
	}
	if !allowedFile(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
		return "", false
	}

	// Scratch writes go by filename; concurrent uploads of the same name
	// can overwrite each other. Accepted.
	path := filepath.Join(h.cfg.Upload.Dir, filepath.Base(header.Filename))
	if err := c.SaveUploadedFile(header, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file: " + err.Error()})
		return "", false
	}

	if h.archive != nil {
		h.archiveUpload(c, header, path)
	}

	text, err := service.ExtractText(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return "", false
	}
	if text == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not extract text"})
		return "", false
	}
	return text, true
}

// archiveUpload copies the saved upload into the archive bucket. Failures
// are logged, never surfaced to the caller.
func (h *DocumentHandler) archiveUpload(c *gin.Context, header *multipart.FileHeader, path string) {
	ctx := c.Request.Context()

	f, err := os.Open(path)
	if err != nil {
		logger.Warn(ctx, "failed to reopen upload for archiving", "path", path, "error", err)
		return
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	if err := h.archive.Put(ctx, header.Filename, f, header.Size, contentType); err != nil {
		logger.Warn(ctx, "failed to archive upload", "filename", header.Filename, "error", err)
	}
}

// complete calls the inference service and renders a remote failure as a
// warning-prefixed string inside the success-shaped payload.
func (h *DocumentHandler) complete(c *gin.Context, systemMessage, prompt string) string {
	reply, err := h.inference.Complete(c.Request.Context(), systemMessage, prompt)
	if err != nil {
		logger.Error(c.Request.Context(), "inference call failed", "error", err)
		return modelErrorPrefix + err.Error()
	}
	return reply
}

// allowedFile matches the substring after the last dot, case-insensitively.
func allowedFile(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	return model.AllowedExtensions[strings.ToLower(filename[i+1:])]
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
