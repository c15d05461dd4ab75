package guests

import (
	"context"
	"crypto/rand"
	"errors"
	"io"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

// MaxCodeAttempts bounds the generate-until-unique loop.
const MaxCodeAttempts = 10000

var ErrCodeSpaceExhausted = errors.New("no unused invitation code found")

// rejectAbove is the largest multiple of the alphabet size that fits in a byte. Bytes at or
// above it are redrawn so every symbol is equally likely.
var rejectAbove = 256 - 256%len(domain.InvitationCodeAlphabet)

// CodeGenerator draws invitation codes uniformly from domain.InvitationCodeAlphabet.
type CodeGenerator struct {
	rand        io.Reader
	maxAttempts int
}

// NewCodeGenerator uses r as its randomness source; nil means crypto/rand.
func NewCodeGenerator(r io.Reader) *CodeGenerator {
	if r == nil {
		r = rand.Reader
	}
	return &CodeGenerator{rand: r, maxAttempts: MaxCodeAttempts}
}

// Candidate returns one random code without any uniqueness check.
func (g *CodeGenerator) Candidate() (domain.InvitationCode, error) {
	out := make([]byte, 0, domain.InvitationCodeLength)
	var b [1]byte
	for len(out) < domain.InvitationCodeLength {
		if _, err := io.ReadFull(g.rand, b[:]); err != nil {
			return "", err
		}
		if int(b[0]) >= rejectAbove {
			continue
		}
		out = append(out, domain.InvitationCodeAlphabet[int(b[0])%len(domain.InvitationCodeAlphabet)])
	}
	return domain.InvitationCode(out), nil
}

// Generate draws candidates until exists reports one as free.
// It fails with ErrCodeSpaceExhausted after the attempt bound.
func (g *CodeGenerator) Generate(ctx context.Context, exists func(context.Context, domain.InvitationCode) (bool, error)) (domain.InvitationCode, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := g.Candidate()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}
