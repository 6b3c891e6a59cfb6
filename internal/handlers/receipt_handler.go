package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fintrack/internal/ai"
	"fintrack/internal/blob"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/services"
)

// maxReceiptSize caps receipt uploads at 10 MiB.
const maxReceiptSize = 10 << 20

var receiptContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ReceiptHandler handles receipt upload and extraction. The image goes to
// blob storage, the model extracts the fields, and the result is recorded as
// an expense transaction.
type ReceiptHandler struct {
	transactionService services.TransactionServicer
	generator          ai.Generator
	store              blob.Store
}

// NewReceiptHandler creates a new ReceiptHandler. generator and store may be
// nil when the corresponding provider is not configured.
func NewReceiptHandler(transactionService services.TransactionServicer, generator ai.Generator, store blob.Store) *ReceiptHandler {
	return &ReceiptHandler{transactionService: transactionService, generator: generator, store: store}
}

// UploadReceipt extracts a receipt image into an expense transaction
// @Summary     Upload a receipt
// @Description Upload a receipt image; its merchant, total, category, and date are extracted and recorded as an expense
// @Tags        receipts
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       account_id formData int  true "Account to charge"
// @Param       receipt    formData file true "Receipt image (JPEG, PNG, or WebP)"
// @Success     201 {object} TransactionResponse "Transaction created from receipt"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     422 {object} ErrorResponse "Receipt could not be read"
// @Failure     502 {object} ErrorResponse "Extraction failed"
// @Router      /receipts [post]
func (h *ReceiptHandler) UploadReceipt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if h.generator == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrExternalService, "Receipt extraction is not configured"))
		return
	}

	accountID, err := strconv.ParseUint(c.PostForm("account_id"), 10, 32)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid account_id"))
		return
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Receipt file is required"))
		return
	}
	if fileHeader.Size > maxReceiptSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Receipt file too large"))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	ext, ok := receiptContentTypes[contentType]
	if !ok {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Receipt must be a JPEG, PNG, or WebP image"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	ctx := c.Request.Context()

	receipt, err := h.generator.ExtractReceipt(ctx, image, contentType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	draft := services.ReceiptDraft{
		Merchant: receipt.Merchant,
		Amount:   receipt.Amount,
		Category: receipt.Category,
		Date:     receipt.Date,
	}

	// Storage is optional; without it the transaction is recorded with no
	// image reference.
	if h.store != nil {
		objectName := path.Join("receipts", fmt.Sprintf("user-%d", userID), uuid.NewString()+ext)
		url, upErr := h.store.Upload(ctx, objectName, contentType, bytes.NewReader(image))
		if upErr != nil {
			logger.Get().Warnw("receipt upload failed", "error", upErr, "user_id", userID)
		} else {
			draft.ReceiptObject = objectName
			draft.ReceiptURL = url
		}
	}

	transaction, err := h.transactionService.CreateFromReceipt(userID, uint(accountID), draft)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}
