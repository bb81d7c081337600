package verification

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCodeMismatch        = errors.New("verification code does not match")
	ErrVerificationBlocked = errors.New("verification is blocked")
	ErrVerificationExpired = errors.New("verification has expired")
	ErrNotVerified         = errors.New("verification is not complete")
	ErrAlreadyVerified     = errors.New("channel is already verified")
	ErrInvalidChannel      = errors.New("unknown verification channel")
	ErrInvalidContact      = errors.New("email and phone are required")
	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusExpired  Status = "expired"
	StatusBlocked  Status = "blocked"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

func NewChannel(s string) (Channel, error) {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	if c != ChannelEmail && c != ChannelSMS {
		return "", ErrInvalidChannel
	}
	return c, nil
}

// CodeMatcher compares a submitted code with the stored hash.
type CodeMatcher interface {
	Matches(hash, code string) bool
}

type Verification struct {
	id                uuid.UUID
	tenantID          uuid.UUID
	email             string
	phone             string
	emailCodeHash     string
	smsCodeHash       string
	emailVerified     bool
	smsVerified       bool
	attempts          int
	maxAttempts       int
	expiresAt         time.Time
	payload           SignupPayload
	status            Status
	promotedCompanyID *uuid.UUID
	version           int
	createdAt         time.Time
	updatedAt         time.Time

	changed bool
}

type StartParams struct {
	TenantID      uuid.UUID
	Email         string
	Phone         string
	EmailCodeHash string
	SMSCodeHash   string
	Payload       SignupPayload
	MaxAttempts   int
	TTL           time.Duration
}

func New(p StartParams, now time.Time) (*Verification, error) {
	email := strings.TrimSpace(p.Email)
	phone := strings.TrimSpace(p.Phone)
	if email == "" || phone == "" {
		return nil, ErrInvalidContact
	}
	if p.MaxAttempts <= 0 {
		return nil, ErrInvalidMaxAttempts
	}
	if err := p.Payload.Validate(); err != nil {
		return nil, err
	}
	return &Verification{
		id:            uuid.New(),
		tenantID:      p.TenantID,
		email:         email,
		phone:         phone,
		emailCodeHash: p.EmailCodeHash,
		smsCodeHash:   p.SMSCodeHash,
		maxAttempts:   p.MaxAttempts,
		expiresAt:     now.Add(p.TTL),
		payload:       p.Payload,
		status:        StatusPending,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ExpireIfDue moves a pending record to expired once now is past expiresAt.
// It reports whether the status changed so the caller can persist it.
func (v *Verification) ExpireIfDue(now time.Time) bool {
	if v.status != StatusPending || !now.After(v.expiresAt) {
		return false
	}
	v.status = StatusExpired
	v.touch(now)
	return true
}

// Check validates one channel's code. A mismatch consumes an attempt; the
// attempt that reaches maxAttempts blocks the record.
func (v *Verification) Check(channel Channel, code string, m CodeMatcher, now time.Time) error {
	if err := v.guard(now); err != nil {
		return err
	}
	if v.status == StatusVerified || v.isChannelVerified(channel) {
		return nil
	}

	hash, err := v.hashFor(channel)
	if err != nil {
		return err
	}

	if !m.Matches(hash, code) {
		v.attempts++
		v.touch(now)
		if v.attempts >= v.maxAttempts {
			v.status = StatusBlocked
			return ErrVerificationBlocked
		}
		return ErrCodeMismatch
	}

	switch channel {
	case ChannelEmail:
		v.emailVerified = true
	case ChannelSMS:
		v.smsVerified = true
	}
	if v.emailVerified && v.smsVerified {
		v.status = StatusVerified
	}
	v.touch(now)
	return nil
}

// ReplaceCode swaps in a freshly issued code for a channel. Attempts and expiry are untouched.
func (v *Verification) ReplaceCode(channel Channel, hash string, now time.Time) error {
	if err := v.guard(now); err != nil {
		return err
	}
	if v.status == StatusVerified || v.isChannelVerified(channel) {
		return ErrAlreadyVerified
	}
	switch channel {
	case ChannelEmail:
		v.emailCodeHash = hash
	case ChannelSMS:
		v.smsCodeHash = hash
	default:
		return ErrInvalidChannel
	}
	v.touch(now)
	return nil
}

// MarkPromoted records the company created from the payload. A second call returns the first id.
func (v *Verification) MarkPromoted(companyID uuid.UUID, now time.Time) (uuid.UUID, error) {
	if v.status != StatusVerified {
		return uuid.Nil, ErrNotVerified
	}
	if v.promotedCompanyID != nil {
		return *v.promotedCompanyID, nil
	}
	v.promotedCompanyID = &companyID
	v.touch(now)
	return companyID, nil
}

func (v *Verification) touch(now time.Time) {
	v.updatedAt = now
	v.changed = true
}

// HasChanges reports whether any mutation happened since the record was loaded.
func (v *Verification) HasChanges() bool { return v.changed }

func (v *Verification) guard(now time.Time) error {
	switch v.status {
	case StatusBlocked:
		return ErrVerificationBlocked
	case StatusExpired:
		return ErrVerificationExpired
	}
	if v.ExpireIfDue(now) {
		return ErrVerificationExpired
	}
	return nil
}

func (v *Verification) hashFor(channel Channel) (string, error) {
	switch channel {
	case ChannelEmail:
		return v.emailCodeHash, nil
	case ChannelSMS:
		return v.smsCodeHash, nil
	default:
		return "", ErrInvalidChannel
	}
}

func (v *Verification) isChannelVerified(channel Channel) bool {
	switch channel {
	case ChannelEmail:
		return v.emailVerified
	case ChannelSMS:
		return v.smsVerified
	default:
		return false
	}
}

func (v *Verification) RemainingAttempts() int {
	left := v.maxAttempts - v.attempts
	if left < 0 {
		return 0
	}
	return left
}

func (v *Verification) IsPromoted() bool { return v.promotedCompanyID != nil }

func (v *Verification) ID() uuid.UUID                 { return v.id }
func (v *Verification) TenantID() uuid.UUID           { return v.tenantID }
func (v *Verification) Email() string                 { return v.email }
func (v *Verification) Phone() string                 { return v.phone }
func (v *Verification) EmailCodeHash() string         { return v.emailCodeHash }
func (v *Verification) SMSCodeHash() string           { return v.smsCodeHash }
func (v *Verification) EmailVerified() bool           { return v.emailVerified }
func (v *Verification) SMSVerified() bool             { return v.smsVerified }
func (v *Verification) Attempts() int                 { return v.attempts }
func (v *Verification) MaxAttempts() int              { return v.maxAttempts }
func (v *Verification) ExpiresAt() time.Time          { return v.expiresAt }
func (v *Verification) Payload() SignupPayload        { return v.payload }
func (v *Verification) Status() Status                { return v.status }
func (v *Verification) PromotedCompanyID() *uuid.UUID { return v.promotedCompanyID }
func (v *Verification) Version() int                  { return v.version }
func (v *Verification) CreatedAt() time.Time          { return v.createdAt }
func (v *Verification) UpdatedAt() time.Time          { return v.updatedAt }
