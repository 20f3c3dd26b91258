package session

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"disasterprep/config"
	"disasterprep/models"
)

// memberNamespace derives stable member ids from login emails.
var memberNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("disasterprep/members"))

// StaticIdentityProvider signs members in against the configured member directory.
type StaticIdentityProvider struct {
	members map[string]config.Member // Keyed by lower-cased email
	now     func() time.Time
	log     *zap.Logger

	mu       sync.Mutex
	joinedAt map[string]time.Time // First successful sign-in per member
}

// NewStaticIdentityProvider indexes members by email.
func NewStaticIdentityProvider(members []config.Member) *StaticIdentityProvider {
	p := &StaticIdentityProvider{
		members:  make(map[string]config.Member, len(members)),
		now:      time.Now,
		log:      zap.L().Named("IdentityProvider"),
		joinedAt: make(map[string]time.Time),
	}
	for _, m := range members {
		p.members[normalizeEmail(m.Email)] = m
	}
	return p
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate implements IdentityProvider.
func (p *StaticIdentityProvider) Authenticate(ctx context.Context, creds Credentials) (*models.MemberProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	email := normalizeEmail(creds.Email)
	member, known := p.members[email]

	// Compare even for unknown emails so response time does not reveal membership.
	expected := member.Passcode
	if !known || expected == "" {
		expected = "\x00unknown member"
	}
	match := subtle.ConstantTimeCompare([]byte(creds.Passcode), []byte(expected)) == 1
	if !known || member.Passcode == "" || !match {
		p.log.Info("Rejected sign-in", zap.Bool("known_member", known))
		return nil, ErrInvalidCredentials
	}

	p.mu.Lock()
	joined, seen := p.joinedAt[email]
	if !seen {
		joined = p.now()
		p.joinedAt[email] = joined
	}
	p.mu.Unlock()

	p.log.Info("Member signed in", zap.String("email", email))
	return &models.MemberProfile{
		MemberID:   uuid.NewSHA1(memberNamespace, []byte(email)).String(),
		LoginEmail: email,
		Nickname:   member.Nickname,
		FirstName:  member.FirstName,
		LastName:   member.LastName,
		PhotoURL:   member.PhotoURL,
		JoinedAt:   joined,
	}, nil
}
