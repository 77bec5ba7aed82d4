package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/service"
)

type newsRequest struct {
	News string `json:"news"`
}

type contentRequest struct {
	News string   `json:"news"`
	URLs []string `json:"urls"`
}

type resultsRequest struct {
	News      string   `json:"news"`
	Headlines []string `json:"headlines"`
	Verify    bool     `json:"verify"`
}

type textRequest struct {
	Text string `json:"text"`
}

type translateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target_lang"`
	Source string `json:"source_lang"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) capabilities(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Capabilities())
}

func (s *Server) history(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		badRequest(c, "missing "+headerUserID+" header")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	switch c.DefaultQuery("kind", "activity") {
	case "activity":
		entries, err := s.svc.History(c.Request.Context(), uid, limit)
		if err != nil {
			s.internalError(c, "history lookup failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"history": entries})
	case "verifications":
		recs, err := s.svc.Verifications(c.Request.Context(), uid, limit)
		if err != nil {
			s.internalError(c, "verification lookup failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"verifications": recs})
	default:
		badRequest(c, "kind must be activity or verifications")
	}
}

func (s *Server) extractHeadlines(c *gin.Context) {
	var req newsRequest
	if !bind(c, &req) {
		return
	}
	headlines, err := s.svc.Headlines(c.Request.Context(), req.News)
	if errors.Is(err, service.ErrEmptyInput) {
		badRequest(c, "No news text provided")
		return
	}
	if len(headlines) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract headlines"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key_phrases": gin.H{"news_headline": headlines}})
}

func (s *Server) search(c *gin.Context) {
	var req newsRequest
	if !bind(c, &req) {
		return
	}
	urls, err := s.svc.Search(c.Request.Context(), req.News)
	if err != nil {
		badRequest(c, "No news text provided")
		return
	}
	c.JSON(http.StatusOK, gin.H{"google_search_results": urls})
}

func (s *Server) extractedContent(c *gin.Context) {
	var req contentRequest
	if !bind(c, &req) {
		return
	}
	articles, err := s.svc.ExtractArticles(c.Request.Context(), req.URLs)
	if err != nil {
		badRequest(c, "No URLs provided")
		return
	}
	c.JSON(http.StatusOK, gin.H{"original_news": req.News, "extracted_articles": articles})
}

func (s *Server) results(c *gin.Context) {
	var req resultsRequest
	if !bind(c, &req) {
		return
	}
	report, err := s.svc.Research(c.Request.Context(), userID(c), req.News, req.Headlines, req.Verify)
	if err != nil {
		badRequest(c, "No headlines provided")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) analyzeAuthenticity(c *gin.Context) {
	var req model.AnalysisRequest
	if !bind(c, &req) {
		return
	}
	res, err := s.svc.VerifyAuthenticity(c.Request.Context(), userID(c), req.OriginalText, req.References)
	if err != nil {
		badRequest(c, "No original news provided")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) verifyText(c *gin.Context) {
	var req textRequest
	if !bind(c, &req) {
		return
	}
	res, err := s.svc.VerifyText(c.Request.Context(), userID(c), req.Text)
	if err != nil {
		badRequest(c, "No text provided")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) verifyMeme(c *gin.Context) {
	name, data, ok := s.upload(c)
	if !ok {
		return
	}
	res, err := s.svc.VerifyMeme(c.Request.Context(), userID(c), name, data)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, res)
	case errors.Is(err, service.ErrOCRUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "ocr_enabled": false})
	case errors.Is(err, service.ErrNoReadableText):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "No readable text found in image. Please upload a clearer image.",
			"extracted_text": res.ExtractedText,
		})
	case errors.Is(err, service.ErrOCRFailed):
		s.internalError(c, "OCR failed", err)
	default:
		badRequest(c, err.Error())
	}
}

func (s *Server) detectImage(c *gin.Context) {
	name, data, ok := s.upload(c)
	if !ok {
		return
	}
	res, err := s.svc.DetectImage(c.Request.Context(), userID(c), name, data)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) detectLanguage(c *gin.Context) {
	var req textRequest
	if !bind(c, &req) {
		return
	}
	info, err := s.svc.DetectLanguage(req.Text)
	if err != nil {
		badRequest(c, "No text provided")
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) translate(c *gin.Context) {
	var req translateRequest
	if !bind(c, &req) {
		return
	}
	res, err := s.svc.Translate(c.Request.Context(), req.Text, req.Source, req.Target)
	if err != nil {
		badRequest(c, "No text provided")
		return
	}
	c.JSON(http.StatusOK, res)
}

// upload reads the multipart "image" field, bounded by MaxUploadBytes
func (s *Server) upload(c *gin.Context) (string, []byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return "", nil, false
		}
		badRequest(c, "No image provided")
		return "", nil, false
	}
	if fh.Filename == "" {
		badRequest(c, "No image selected")
		return "", nil, false
	}

	f, err := fh.Open()
	if err != nil {
		s.internalError(c, "failed to read upload", err)
		return "", nil, false
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		s.internalError(c, "failed to read upload", err)
		return "", nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return "", nil, false
	}
	return fh.Filename, data, true
}

// bind decodes a JSON body, answering 400 on failure
func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		badRequest(c, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func (s *Server) internalError(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, zap.Error(err), zap.String("request_id", c.GetString(ctxRequestID)))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%s: %v", msg, err)})
}
