package syncclient

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"complyhub/internal/apperr"
)

// BulkUpload sends items one at a time in the given order. It never fans out: the
// external API has its own throughput limits. A failed item is recorded and the run
// continues. onProgress, when set, fires after every item.
func (c *Client) BulkUpload(ctx context.Context, tenantID string, items []UploadItem, onProgress ProgressFunc) (*BulkResult, error) {
	if _, err := requireHTTPS(c.base.String()); err != nil {
		return nil, err
	}

	res := &BulkResult{
		Total:   len(items),
		Results: make([]UploadResult, 0, len(items)),
		Errors:  make([]ItemError, 0),
	}
	for i, item := range items {
		id, err := c.Upload(ctx, tenantID, item)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, ItemError{
				Index:      i,
				QuestionID: item.QuestionID,
				Kind:       kindName(err),
				Message:    err.Error(),
			})
		} else {
			res.Succeeded++
			res.Results = append(res.Results, UploadResult{Index: i, QuestionID: item.QuestionID, ExternalItemID: id})
		}
		if onProgress != nil {
			onProgress(i+1, len(items))
		}
	}

	c.log.WithFields(logrus.Fields{
		"event":     "sync_bulk_upload",
		"tenant_id": tenantID,
		"total":     res.Total,
		"succeeded": res.Succeeded,
		"failed":    res.Failed,
	}).Info("bulk upload finished")
	return res, nil
}

func kindName(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return "rejected"
	}
	return string(apperr.KindOf(err))
}
