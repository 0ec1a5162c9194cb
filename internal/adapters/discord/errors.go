package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// APIError is a Discord response whose payload carries an error code.
type APIError struct {
	Status     int
	Code       int
	Message    string
	Body       []byte
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	switch {
	case e.Code != 0:
		return fmt.Sprintf("discord api error %d (HTTP %d): %s", e.Code, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("discord api error (HTTP %d): %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("discord api error (HTTP %d): %s", e.Status, e.Body)
	}
}

type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// errorBody holds the payload of a rate limited response, which discordgo
// does not keep.
type errorBody struct {
	data []byte
}

type errorBodyKey struct{}

func withErrorBody(ctx context.Context) (context.Context, *errorBody) {
	body := &errorBody{}
	return context.WithValue(ctx, errorBodyKey{}, body), body
}

func errorBodyFrom(ctx context.Context) *errorBody {
	body, _ := ctx.Value(errorBodyKey{}).(*errorBody)
	return body
}

// translate converts discordgo REST and rate limit failures into *APIError
// and passes every other error through unchanged.
func translate(err error, body *errorBody) error {
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		apiErr := &APIError{Body: restErr.ResponseBody}
		if restErr.Response != nil {
			apiErr.Status = restErr.Response.StatusCode
		}
		if restErr.Message != nil {
			apiErr.Code = restErr.Message.Code
			apiErr.Message = restErr.Message.Message
		}
		return apiErr
	}

	if rl := rateLimit(err); rl != nil {
		apiErr := &APIError{Status: 429}
		if rl.TooManyRequests != nil {
			apiErr.Message = rl.Message
			apiErr.RetryAfter = rl.RetryAfter
		}
		if body != nil && len(body.data) > 0 {
			apiErr.Body = body.data
			var payload errorPayload
			if json.Unmarshal(body.data, &payload) == nil {
				apiErr.Code = payload.Code
				if payload.Message != "" {
					apiErr.Message = payload.Message
				}
			}
		}
		return apiErr
	}

	return err
}

func rateLimit(err error) *discordgo.RateLimit {
	var rlErr *discordgo.RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr.RateLimit
	}
	return nil
}
