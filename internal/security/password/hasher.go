package password

import (
	"github.com/5w1tchy/library-api/internal/config"
	"github.com/alexedwards/argon2id"
)

const (
	saltLength = 16
	keyLength  = 32
)

// Hasher produces and checks argon2id PHC strings with configured cost.
type Hasher struct {
	params argon2id.Params
}

func NewHasher(cfg config.Argon2Config) *Hasher {
	return &Hasher{params: argon2id.Params{
		Memory:      cfg.Memory,
		Iterations:  cfg.Iterations,
		Parallelism: cfg.Parallelism,
		SaltLength:  saltLength,
		KeyLength:   keyLength,
	}}
}

// Hash returns a PHC string like `$argon2id$v=19$m=131072,t=3,p=1$...`
func (h *Hasher) Hash(plain string) (string, error) {
	p := h.params
	return argon2id.CreateHash(plain, &p)
}

// Verify checks password vs PHC hash and also indicates if a rehash is recommended.
func (h *Hasher) Verify(plain, phc string) (ok bool, needsRehash bool, err error) {
	ok, err = argon2id.ComparePasswordAndHash(plain, phc)
	if err != nil || !ok {
		return ok, false, err
	}
	return ok, h.NeedsRehash(phc), nil
}

func (h *Hasher) NeedsRehash(phc string) bool {
	stored, _, _, err := argon2id.DecodeHash(phc)
	if err != nil {
		// unparseable: treat as needs rehash
		return true
	}
	return stored.Memory < h.params.Memory ||
		stored.Iterations < h.params.Iterations ||
		stored.Parallelism < h.params.Parallelism ||
		stored.SaltLength < h.params.SaltLength ||
		stored.KeyLength < h.params.KeyLength
}
