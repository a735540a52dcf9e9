// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/taibuivan/swifttravel/internal/platform/apperr"
	"github.com/taibuivan/swifttravel/internal/platform/constants"
	"github.com/taibuivan/swifttravel/internal/platform/ctxutil"
	"github.com/taibuivan/swifttravel/internal/platform/mail"
	"github.com/taibuivan/swifttravel/internal/platform/metrics"
	"github.com/taibuivan/swifttravel/internal/platform/sec"
	"github.com/taibuivan/swifttravel/internal/platform/validate"
	"github.com/taibuivan/swifttravel/pkg/emailaddr"
)

// IssuerConfig holds the magic-link settings.
type IssuerConfig struct {
	// TokenTTL is how long an unused link stays redeemable.
	TokenTTL time.Duration
	// FrontendURL is the web app origin the link points at.
	FrontendURL string
	// LinkPath is the web app route that posts the token to /auth/verify.
	LinkPath string
}

// Issuer creates magic links and hands them to the mailer.
type Issuer struct {
	store   TokenStore
	limiter *RateLimiter
	mailer  mail.Mailer
	cfg     IssuerConfig
	options
}

// NewIssuer constructs an [Issuer].
func NewIssuer(store TokenStore, limiter *RateLimiter, mailer mail.Mailer, cfg IssuerConfig, opts ...Option) *Issuer {
	return &Issuer{
		store:   store,
		limiter: limiter,
		mailer:  mailer,
		cfg:     cfg,
		options: buildOptions(opts),
	}
}

/*
Issue sends a single-use sign-in link to email.

# Flow
 1. Normalize and validate the address (400 without touching the store).
 2. Consume a rate-limit slot (429 when exhausted, no token is created).
 3. Generate a 256-bit token and store it with the email binding and TTL.
 4. Render and deliver the email.

A delivery failure leaves the stored token redeemable until it expires.

Returns:
  - error: [apperr.AppError] with VALIDATION_ERROR, RATE_LIMITED,
    DELIVERY_FAILED or INTERNAL_ERROR
*/
func (issuer *Issuer) Issue(ctx context.Context, email string) error {
	logger := ctxutil.GetLogger(ctx)
	email = emailaddr.Normalize(email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	if err := validator.Err(); err != nil {
		return err
	}

	limit, err := issuer.limiter.CheckAndIncrement(ctx, email)
	if err != nil {
		issuer.metrics.LinkIssued(metrics.OutcomeError)
		return apperr.Internal(err)
	}
	if !limit.Allowed {
		issuer.metrics.LinkIssued(metrics.OutcomeRateLimited)
		logger.WarnContext(ctx, "magic_link_rate_limited", slog.String("email", email))
		return apperr.RateLimited(int(issuer.limiter.Window() / time.Second))
	}

	token, err := sec.GenerateSecureToken(constants.MagicLinkTokenBytes)
	if err != nil {
		issuer.metrics.LinkIssued(metrics.OutcomeError)
		return apperr.Internal(err)
	}

	payload, err := json.Marshal(MagicToken{Email: email, CreatedAt: issuer.clock.Now().UTC()})
	if err != nil {
		issuer.metrics.LinkIssued(metrics.OutcomeError)
		return apperr.Internal(fmt.Errorf("auth_magic_token_encode_failed: %w", err))
	}

	if err := issuer.store.SetWithExpiry(ctx, magicLinkKey(token), string(payload), issuer.cfg.TokenTTL); err != nil {
		issuer.metrics.LinkIssued(metrics.OutcomeError)
		return apperr.Internal(err)
	}

	link, err := issuer.buildLink(token)
	if err != nil {
		issuer.metrics.LinkIssued(metrics.OutcomeError)
		return apperr.Internal(err)
	}

	message, err := mail.RenderMagicLink(email, link, issuer.cfg.TokenTTL)
	if err != nil {
		issuer.metrics.LinkIssued(metrics.OutcomeError)
		return apperr.Internal(err)
	}

	result, err := issuer.mailer.Send(ctx, message)
	if err != nil {
		issuer.metrics.LinkIssued(metrics.OutcomeError)
		logger.ErrorContext(ctx, "magic_link_delivery_failed", slog.String("email", email), slog.Any("error", err))
		return apperr.DeliveryFailed(err)
	}

	issuer.metrics.LinkIssued(metrics.OutcomeSuccess)
	logger.InfoContext(ctx, "magic_link_issued",
		slog.String("email", email),
		slog.Int("remaining", limit.Remaining),
		slog.String("message_id", result.MessageID),
	)

	return nil
}

// buildLink appends the token as a query parameter to the frontend verify route.
func (issuer *Issuer) buildLink(token string) (string, error) {
	base, err := url.Parse(issuer.cfg.FrontendURL)
	if err != nil {
		return "", fmt.Errorf("auth_magic_link_url_invalid: %w", err)
	}

	link := base.JoinPath(issuer.cfg.LinkPath)
	query := link.Query()
	query.Set(FieldToken, token)
	link.RawQuery = query.Encode()

	return link.String(), nil
}

func magicLinkKey(token string) string {
	return constants.RedisPrefixMagicLink + token
}
