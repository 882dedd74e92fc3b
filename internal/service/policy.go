package service

import (
	"gym-coach-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// AccessPolicy bundles the pure authorization decisions every domain
// operation consults before touching persistence. The allow-list is
// injected at construction so tests can exercise variants without reading
// process-wide state.
type AccessPolicy struct {
	allowedEmails []string
}

// NewAccessPolicy creates an AccessPolicy with an optional email
// allow-list. An empty (or nil) list means "no restriction".
func NewAccessPolicy(allowedEmails []string) *AccessPolicy {
	return &AccessPolicy{allowedEmails: allowedEmails}
}

// CanAuthenticate reports whether the email may authenticate or register.
func (p *AccessPolicy) CanAuthenticate(email string) bool {
	if len(p.allowedEmails) == 0 {
		return true
	}
	for _, allowed := range p.allowedEmails {
		if allowed == email {
			return true
		}
	}
	return false
}

// IsOwner reports whether the acting user owns the resource.
func (p *AccessPolicy) IsOwner(actingUserID, resourceOwnerID primitive.ObjectID) bool {
	return actingUserID != primitive.NilObjectID && actingUserID == resourceOwnerID
}

// HasRole reports whether the user's role set contains the role.
func (p *AccessPolicy) HasRole(user *domain.User, role domain.Role) bool {
	return user != nil && user.HasRole(role)
}

// IsAssignedTrainer reports whether the trainer manages the trainee,
// either as the primary trainer or as an additional managing trainer.
func (p *AccessPolicy) IsAssignedTrainer(trainerID primitive.ObjectID, trainee *domain.User) bool {
	if trainee == nil || trainerID == primitive.NilObjectID {
		return false
	}
	if trainee.TrainerID != nil && *trainee.TrainerID == trainerID {
		return true
	}
	for _, id := range trainee.ManagingTrainerIDs {
		if id == trainerID {
			return true
		}
	}
	return false
}

// HashPassword hashes a plaintext password with bcrypt. The default cost
// (10 rounds) satisfies the work-factor requirement, and bcrypt salts each
// hash, so the same password never reliably collides across users.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt hash.
// It fails closed: an absent or malformed hash yields false, never an error.
func VerifyPassword(password, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
