package commands

import (
	"context"
	"errors"
	"strings"

	"retail-core/internal/domain/company"
	"retail-core/internal/domain/user"
	"retail-core/internal/domain/verification"
	"retail-core/internal/infra"
	"retail-core/internal/metrics"
	"retail-core/internal/pkg/clock"
	"retail-core/internal/pkg/config"
	"retail-core/internal/pkg/errs"
	"retail-core/internal/pkg/password"
	"retail-core/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	maxCASAttempts = 3

	topicVerificationCode = "signup.verification_code"
	topicWelcome          = "signup.welcome"
)

type StartVerificationRequest struct {
	TenantID          uuid.UUID
	Email             string
	Phone             string
	CompanyName       string
	OwnerName         string
	Password          string
	PlanID            string
	BillingCycle      string
	MarketingOptIn    bool
	PreferredLanguage string
}

type CheckCodeRequest struct {
	VerificationID uuid.UUID
	Channel        string
	Code           string
}

type CheckResult struct {
	Status            verification.Status
	EmailVerified     bool
	SMSVerified       bool
	RemainingAttempts int
}

type VerificationCommands interface {
	Start(ctx context.Context, req StartVerificationRequest) (*verification.Verification, error)
	Check(ctx context.Context, req CheckCodeRequest) (*CheckResult, error)
	// Promote creates the company once. Replays return the same company id.
	Promote(ctx context.Context, verificationID uuid.UUID) (uuid.UUID, error)
	Resend(ctx context.Context, verificationID uuid.UUID, channel string) error
}

type verificationUseCaseImpl struct {
	uow      shared.UnitOfWork
	notifier shared.Notifier
	codes    CodeGenerator
	retry    shared.RetryPolicy
	clock    clock.Clock
	cfg      config.VerificationConfig
}

func NewVerificationUseCase(
	uow shared.UnitOfWork,
	notifier shared.Notifier,
	codes CodeGenerator,
	retry shared.RetryPolicy,
	clk clock.Clock,
	cfg config.VerificationConfig,
) VerificationCommands {
	return &verificationUseCaseImpl{
		uow:      uow,
		notifier: notifier,
		codes:    codes,
		retry:    retry,
		clock:    clk,
		cfg:      cfg,
	}
}

// verificationError maps domain failures to error kinds. Mismatches say how many tries are left, never the code.
func verificationError(err error, remaining int) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, verification.ErrCodeMismatch):
		return errs.Mark(errs.WithRemainingAttempts(err, remaining), errs.ErrValidation)
	case errors.Is(err, verification.ErrVerificationBlocked):
		return errs.Mark(errs.WithRemainingAttempts(err, 0), errs.ErrBlocked)
	case errors.Is(err, verification.ErrVerificationExpired):
		return errs.Mark(err, errs.ErrExpired)
	case errors.Is(err, verification.ErrNotVerified), errors.Is(err, verification.ErrAlreadyVerified):
		return errs.Mark(err, errs.ErrConflict)
	case errors.Is(err, verification.ErrInvalidChannel),
		errors.Is(err, verification.ErrInvalidContact),
		errors.Is(err, verification.ErrInvalidPayload),
		errors.Is(err, verification.ErrInvalidMaxAttempts):
		return errs.Mark(err, errs.ErrValidation)
	}
	return shared.Classify(err)
}

func (uc *verificationUseCaseImpl) Start(ctx context.Context, req StartVerificationRequest) (*verification.Verification, error) {
	email, err := user.NewEmail(req.Email)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	phone, err := user.NormalizePhone(req.Phone)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	pw, err := user.NewPassword(req.Password)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	emailCode, emailHash, err := uc.issueCode()
	if err != nil {
		return nil, err
	}
	smsCode, smsHash, err := uc.issueCode()
	if err != nil {
		return nil, err
	}
	pwHash, err := password.HashPassword(pw.Value())
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "hash signup password"), errs.ErrInternal)
	}

	v, err := verification.New(verification.StartParams{
		TenantID:      req.TenantID,
		Email:         email.Value(),
		Phone:         phone,
		EmailCodeHash: emailHash,
		SMSCodeHash:   smsHash,
		Payload: verification.SignupPayload{
			CompanyName:       strings.TrimSpace(req.CompanyName),
			OwnerName:         strings.TrimSpace(req.OwnerName),
			PasswordHash:      pwHash,
			PlanID:            req.PlanID,
			BillingCycle:      req.BillingCycle,
			MarketingOptIn:    req.MarketingOptIn,
			PreferredLanguage: req.PreferredLanguage,
		},
		MaxAttempts: uc.cfg.MaxAttempts,
		TTL:         uc.cfg.TTL,
	}, uc.clock.Now())
	if err != nil {
		return nil, verificationError(err, 0)
	}

	err = uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Verifications().Create(ctx, v); err != nil {
				return err
			}
			if err := uc.sendCode(ctx, tx, v, verification.ChannelEmail, emailCode); err != nil {
				return err
			}
			return uc.sendCode(ctx, tx, v, verification.ChannelSMS, smsCode)
		})
	})
	if err != nil {
		return nil, shared.Classify(err)
	}
	return v, nil
}

func (uc *verificationUseCaseImpl) issueCode() (string, string, error) {
	code, err := uc.codes.Generate(uc.cfg.CodeLength)
	if err != nil {
		return "", "", errs.Mark(errs.Wrap(err, "generate verification code"), errs.ErrInternal)
	}
	hash, err := password.HashCode(code)
	if err != nil {
		return "", "", errs.Mark(errs.Wrap(err, "hash verification code"), errs.ErrInternal)
	}
	return code, hash, nil
}

func (uc *verificationUseCaseImpl) sendCode(ctx context.Context, tx shared.Tx, v *verification.Verification, channel verification.Channel, code string) error {
	recipient := v.Email()
	if channel == verification.ChannelSMS {
		recipient = v.Phone()
	}
	return uc.notifier.Notify(ctx, tx, shared.Message{
		Channel:   string(channel),
		Topic:     topicVerificationCode,
		Recipient: recipient,
		Data: map[string]any{
			"verificationId": v.ID().String(),
			"code":           code,
			"expiresAt":      v.ExpiresAt(),
		},
	})
}

// isOutcome reports domain failures whose state changes must still be saved,
// such as a consumed attempt or a lazily applied expiry.
func isOutcome(err error) bool {
	for _, target := range []error{
		verification.ErrCodeMismatch,
		verification.ErrVerificationBlocked,
		verification.ErrVerificationExpired,
		verification.ErrNotVerified,
		verification.ErrAlreadyVerified,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// mutate runs fn against a freshly loaded record and saves what it changed. Any
// other error from fn rolls the transaction back. Lost version races are retried.
func (uc *verificationUseCaseImpl) mutate(
	ctx context.Context,
	id uuid.UUID,
	fn func(ctx context.Context, tx shared.Tx, v *verification.Verification) error,
) (*verification.Verification, error) {
	var v *verification.Verification
	var err error
	for i := 0; i < maxCASAttempts; i++ {
		err = uc.retry.Do(ctx, func(ctx context.Context) error {
			return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
				loaded, err := tx.Verifications().FindByID(ctx, id)
				if err != nil {
					return err
				}
				if ferr := fn(ctx, tx, loaded); ferr != nil && !isOutcome(ferr) {
					return ferr
				}
				if loaded.HasChanges() {
					if err := tx.Verifications().Update(ctx, loaded); err != nil {
						return err
					}
				}
				v = loaded
				return nil
			})
		})
		if !infra.IsKind(err, infra.KindConflict) {
			break
		}
	}
	if err != nil {
		return nil, shared.Classify(err)
	}
	return v, nil
}

func (uc *verificationUseCaseImpl) Check(ctx context.Context, req CheckCodeRequest) (*CheckResult, error) {
	channel, err := verification.NewChannel(req.Channel)
	if err != nil {
		return nil, verificationError(err, 0)
	}

	var checkErr error
	v, err := uc.mutate(ctx, req.VerificationID, func(_ context.Context, _ shared.Tx, v *verification.Verification) error {
		checkErr = v.Check(channel, req.Code, password.Matcher{}, uc.clock.Now())
		return checkErr
	})
	if err != nil {
		return nil, err
	}

	metrics.VerificationChecksTotal.WithLabelValues(string(channel), checkOutcome(checkErr)).Inc()
	if checkErr != nil {
		return nil, verificationError(checkErr, v.RemainingAttempts())
	}
	return &CheckResult{
		Status:            v.Status(),
		EmailVerified:     v.EmailVerified(),
		SMSVerified:       v.SMSVerified(),
		RemainingAttempts: v.RemainingAttempts(),
	}, nil
}

func checkOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, verification.ErrCodeMismatch):
		return "mismatch"
	case errors.Is(err, verification.ErrVerificationBlocked):
		return "blocked"
	case errors.Is(err, verification.ErrVerificationExpired):
		return "expired"
	default:
		return "error"
	}
}

func (uc *verificationUseCaseImpl) Resend(ctx context.Context, verificationID uuid.UUID, channel string) error {
	ch, err := verification.NewChannel(channel)
	if err != nil {
		return verificationError(err, 0)
	}
	code, hash, err := uc.issueCode()
	if err != nil {
		return err
	}

	var replaceErr error
	_, err = uc.mutate(ctx, verificationID, func(ctx context.Context, tx shared.Tx, v *verification.Verification) error {
		if replaceErr = v.ReplaceCode(ch, hash, uc.clock.Now()); replaceErr != nil {
			return replaceErr
		}
		return uc.sendCode(ctx, tx, v, ch, code)
	})
	if err != nil {
		return err
	}
	return verificationError(replaceErr, 0)
}

func (uc *verificationUseCaseImpl) Promote(ctx context.Context, verificationID uuid.UUID) (uuid.UUID, error) {
	var companyID uuid.UUID
	var promoteErr error

	_, err := uc.mutate(ctx, verificationID, func(ctx context.Context, tx shared.Tx, v *verification.Verification) error {
		promoteErr = nil
		if v.IsPromoted() {
			companyID = *v.PromotedCompanyID()
			return nil
		}
		if v.Status() != verification.StatusVerified {
			promoteErr = verification.ErrNotVerified
			return promoteErr
		}

		now := uc.clock.Now()
		payload := v.Payload()
		c, err := company.NewCompany(v.TenantID(), payload.CompanyName, v.ID(), now)
		if err != nil {
			return errs.Mark(err, errs.ErrValidation)
		}
		id, created, err := tx.Companies().CreateFromVerification(ctx, c)
		if err != nil {
			return err
		}
		if created {
			email, err := user.NewEmail(v.Email())
			if err != nil {
				return errs.Mark(err, errs.ErrValidation)
			}
			owner := user.NewUser(id, email, payload.OwnerName, v.Phone(), payload.PasswordHash, user.RoleOwner, now)
			if err := tx.Companies().CreateUser(ctx, owner); err != nil {
				return err
			}
			if err := uc.notifier.Notify(ctx, tx, shared.Message{
				Channel:   shared.ChannelEmail,
				Topic:     topicWelcome,
				Recipient: v.Email(),
				Data: map[string]any{
					"companyId":   id.String(),
					"companyName": c.Name(),
				},
			}); err != nil {
				return err
			}
		}

		if _, err := v.MarkPromoted(id, now); err != nil {
			return err
		}
		companyID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if promoteErr != nil {
		return uuid.Nil, verificationError(promoteErr, 0)
	}
	return companyID, nil
}
