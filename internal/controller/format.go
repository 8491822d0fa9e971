package controller

import (
	"errors"
	"fmt"

	apierrors "github.com/diogo/personachat/internal/errors"
	"github.com/diogo/personachat/internal/models"
)

// FailureText turns a failed exchange into the bot entry shown to the user
func FailureText(err error) string {
	return fmt.Sprintf("%s (%s)", models.FailurePrefix, failureDetail(err))
}

func failureDetail(err error) string {
	if err == nil {
		return "unknown error"
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return models.ServerErrorPrefix + apiErr.ServerMessage()
	}

	if apierrors.IsCancelled(err) {
		return apierrors.ErrCancelled.Error()
	}

	return err.Error()
}
