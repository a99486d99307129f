package crypto

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"
)

const argon2Algorithm = "argon2id"

const (
	minMemoryKiB   uint32 = 8 * 1024
	minIterations  uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
)

var (
	ErrInvalidHashParams = errors.New("invalid password hash parameters")
	ErrMalformedHash     = errors.New("malformed password hash")
)

// HasherConfig sets the argon2id work factor.
type HasherConfig struct {
	MemoryKiB     uint32
	Iterations    uint32
	Parallelism   uint8
	SaltLength    uint32
	KeyLength     uint32
	MaxConcurrent int
}

// PasswordHasher produces and checks salted argon2id digests in PHC string
// format: $argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>.
//
// Hashing is memory hard, so the number of concurrent computations is bounded
// by a weighted semaphore; callers waiting for a slot give up when their
// context is done.
type PasswordHasher struct {
	cfg HasherConfig
	sem *semaphore.Weighted
}

func NewPasswordHasher(cfg HasherConfig) (*PasswordHasher, error) {
	switch {
	case cfg.MemoryKiB < minMemoryKiB:
		return nil, fmt.Errorf("%w: memory must be >= %d KiB", ErrInvalidHashParams, minMemoryKiB)
	case cfg.Iterations < minIterations:
		return nil, fmt.Errorf("%w: iterations must be >= %d", ErrInvalidHashParams, minIterations)
	case cfg.Parallelism < minParallelism:
		return nil, fmt.Errorf("%w: parallelism must be >= %d", ErrInvalidHashParams, minParallelism)
	case cfg.SaltLength < minSaltLength:
		return nil, fmt.Errorf("%w: salt length must be >= %d", ErrInvalidHashParams, minSaltLength)
	case cfg.KeyLength < minKeyLength:
		return nil, fmt.Errorf("%w: key length must be >= %d", ErrInvalidHashParams, minKeyLength)
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}

	return &PasswordHasher{
		cfg: cfg,
		sem: semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
	}, nil
}

// Hash returns a new digest for password using a fresh random salt.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	salt := make([]byte, h.cfg.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, h.cfg.Iterations, h.cfg.MemoryKiB, h.cfg.Parallelism, h.cfg.KeyLength)
	h.sem.Release(1)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Algorithm,
		argon2.Version,
		h.cfg.MemoryKiB,
		h.cfg.Iterations,
		h.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify reports whether password matches digest. The work factor is taken
// from the digest itself. A malformed digest or a cancelled context yields false.
func (h *PasswordHasher) Verify(ctx context.Context, password, digest string) bool {
	p, err := parseDigest(digest)
	if err != nil {
		return false
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	computed := argon2.IDKey([]byte(password), p.salt, p.iterations, p.memory, p.parallelism, uint32(len(p.hash)))
	h.sem.Release(1)

	return subtle.ConstantTimeCompare(computed, p.hash) == 1
}

type digestParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func parseDigest(digest string) (*digestParams, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != argon2Algorithm {
		return nil, ErrMalformedHash
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") || version != argon2.Version {
		return nil, ErrMalformedHash
	}

	p := &digestParams{}
	var memorySet, iterationsSet, parallelismSet bool
	for _, pair := range strings.Split(parts[3], ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, ErrMalformedHash
		}
		switch key {
		case "m":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || uint32(v) < minMemoryKiB {
				return nil, ErrMalformedHash
			}
			p.memory, memorySet = uint32(v), true
		case "t":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || uint32(v) < minIterations {
				return nil, ErrMalformedHash
			}
			p.iterations, iterationsSet = uint32(v), true
		case "p":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil || uint8(v) < minParallelism {
				return nil, ErrMalformedHash
			}
			p.parallelism, parallelismSet = uint8(v), true
		default:
			return nil, ErrMalformedHash
		}
	}
	if !memorySet || !iterationsSet || !parallelismSet {
		return nil, ErrMalformedHash
	}

	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.salt) == 0 {
		return nil, ErrMalformedHash
	}
	if p.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.hash) < int(minKeyLength) {
		return nil, ErrMalformedHash
	}

	return p, nil
}
