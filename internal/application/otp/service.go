package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"

	"github.com/petnfc-api/internal/domain"
	"github.com/petnfc-api/internal/pkg/keylock"
	"github.com/petnfc-api/internal/pkg/logger"
	"github.com/petnfc-api/internal/pkg/metrics"
	"github.com/petnfc-api/internal/pkg/task"
)

// Delivery channels accepted by Send.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Issued is the result of a successful Issue.
type Issued struct {
	User      *domain.User
	Code      string
	ExpiresAt time.Time
}

type Service interface {
	Issue(ctx context.Context, userID string) (*Issued, error)
	Verify(ctx context.Context, userID, code string) (bool, error)
	Reset(ctx context.Context, userID string) (*domain.User, error)
	RemainingTime(ctx context.Context, userID string) (int, error)
	Send(ctx context.Context, userID, channel string) (*Issued, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	// SaveOTPState writes next only if the stored otp_version still equals
	// prevVersion, returning domain.ErrConflict otherwise.
	SaveOTPState(ctx context.Context, userID string, prevVersion int64, next domain.OTPState) error
}

type otpMailer interface {
	SendOTP(ctx context.Context, u *domain.User, code string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// Options mirror config.OTP with the timezone already resolved.
type Options struct {
	Issuer          string
	Step            time.Duration
	RemainingStep   time.Duration
	ExpiryWindow    time.Duration
	Location        *time.Location
	ConsumeOnVerify bool
}

type ServiceDeps struct {
	UserRepo  userStore
	Mailer    otpMailer
	SMSSender smsSender
	Tasks     task.Scheduler
	Options   Options
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	users  userStore
	mailer otpMailer
	sms    smsSender
	tasks  task.Scheduler
	opts   Options
	now    func() time.Time
	locks  keylock.Map
}

func NewService(deps ServiceDeps) Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Options.Location == nil {
		deps.Options.Location = time.UTC
	}
	if deps.Tasks == nil {
		deps.Tasks = task.Inline{}
	}
	return &service{
		users:  deps.UserRepo,
		mailer: deps.Mailer,
		sms:    deps.SMSSender,
		tasks:  deps.Tasks,
		opts:   deps.Options,
		now:    deps.Now,
	}
}

func (s *service) validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    uint(s.opts.Step / time.Second),
		Skew:      0,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// loadUser maps a missing user to ErrAuthenticationRequired: OTP state only
// exists for an authenticated identity.
func (s *service) loadUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrAuthenticationRequired)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Issue(ctx context.Context, userID string) (*Issued, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	secret, err := s.secretFor(u)
	if err != nil {
		return nil, err
	}
	now := s.now()
	code, err := totp.GenerateCodeCustom(secret, now, s.validateOpts())
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	expiresAt := now.Add(s.opts.ExpiryWindow).In(s.opts.Location)

	next := domain.OTPState{
		OTPSecret:    &secret,
		OTP:          &code,
		OTPCreatedAt: &expiresAt,
		OTPVersion:   u.OTPVersion + 1,
	}
	if err := s.users.SaveOTPState(ctx, userID, u.OTPVersion, next); err != nil {
		metrics.OTPEvents.WithLabelValues("issue", "error").Inc()
		return nil, err
	}
	u.OTPState = next
	metrics.OTPEvents.WithLabelValues("issue", "ok").Inc()
	return &Issued{User: u, Code: code, ExpiresAt: expiresAt}, nil
}

// secretFor returns the stored secret, generating one on first use.
func (s *service) secretFor(u *domain.User) (string, error) {
	if u.OTPSecret != nil && *u.OTPSecret != "" {
		return *u.OTPSecret, nil
	}
	account := u.Email
	if account == "" {
		account = u.UserID
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.opts.Issuer,
		AccountName: account,
		Period:      uint(s.opts.Step / time.Second),
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("generate otp secret: %w", err)
	}
	return key.Secret(), nil
}

// Verify checks code against the user's secret. Without a secret the result
// is false. In consume mode the code must also be the one last issued, and a
// successful check clears it.
func (s *service) Verify(ctx context.Context, userID, code string) (bool, error) {
	if s.opts.ConsumeOnVerify {
		unlock := s.locks.Lock(userID)
		defer unlock()
	}

	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if u.OTPSecret == nil || *u.OTPSecret == "" {
		metrics.OTPEvents.WithLabelValues("verify", "no_secret").Inc()
		return false, nil
	}

	ok, err := totp.ValidateCustom(code, *u.OTPSecret, s.now(), s.validateOpts())
	if errors.Is(err, otp.ErrValidateInputInvalidLength) {
		ok, err = false, nil
	}
	if err != nil {
		return false, fmt.Errorf("validate otp: %w", err)
	}

	if ok && s.opts.ConsumeOnVerify {
		if u.OTP == nil || *u.OTP != code {
			ok = false
		} else {
			next := domain.OTPState{OTPSecret: u.OTPSecret, OTPVersion: u.OTPVersion + 1}
			if err := s.users.SaveOTPState(ctx, userID, u.OTPVersion, next); err != nil {
				return false, err
			}
		}
	}

	result := "invalid"
	if ok {
		result = "valid"
	}
	metrics.OTPEvents.WithLabelValues("verify", result).Inc()
	return ok, nil
}

func (s *service) Reset(ctx context.Context, userID string) (*domain.User, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	next := u.OTPState.Cleared()
	next.OTPVersion++
	if err := s.users.SaveOTPState(ctx, userID, u.OTPVersion, next); err != nil {
		return nil, err
	}
	u.OTPState = next
	metrics.OTPEvents.WithLabelValues("reset", "ok").Inc()
	return u, nil
}

// RemainingTime reports the seconds left in the current RemainingStep window.
func (s *service) RemainingTime(ctx context.Context, userID string) (int, error) {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return 0, err
	}
	step := int64(s.opts.RemainingStep / time.Second)
	return int(step - s.now().Unix()%step), nil
}

// Send issues a code and delivers it in the background. Delivery failures are
// logged by the task runner and never reach the caller.
func (s *service) Send(ctx context.Context, userID, channel string) (*Issued, error) {
	if channel == "" {
		channel = ChannelEmail
	}
	if channel != ChannelEmail && channel != ChannelSMS {
		return nil, fmt.Errorf("unknown channel %q: %w", channel, domain.ErrBadRequest)
	}

	if channel == ChannelSMS {
		u, err := s.loadUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if u.Phone == nil || *u.Phone == "" {
			return nil, fmt.Errorf("no phone number on file: %w", domain.ErrBadRequest)
		}
		if s.sms == nil {
			return nil, fmt.Errorf("sms delivery unavailable: %w", domain.ErrBadRequest)
		}
	}

	issued, err := s.Issue(ctx, userID)
	if err != nil {
		return nil, err
	}
	u, code := issued.User, issued.Code

	if channel == ChannelSMS {
		phone := *u.Phone
		s.tasks.Go(ctx, "otp.sms", func(ctx context.Context) error {
			return s.sms.SendSMS(ctx, phone, fmt.Sprintf("Your %s code is %s", s.opts.Issuer, code))
		})
	} else {
		s.tasks.Go(ctx, "otp.email", func(ctx context.Context) error {
			return s.mailer.SendOTP(ctx, u, code)
		})
	}
	logger.Debug(ctx, "otp scheduled", zap.String("user_id", userID), zap.String("channel", channel))
	return issued, nil
}
