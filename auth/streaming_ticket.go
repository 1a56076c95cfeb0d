// Package auth issues and validates stream tickets, short lived HS256 JWTs
// that let a player fetch one asset's stream without other credentials.
package auth

import (
	"io/ioutil"
	"path"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gitlab.com/olaris/olaris-variants/errdefs"
	"gitlab.com/olaris/olaris-variants/helpers"
)

const issuer = "olaris-variants"

// DefaultTicketLifetime is how long a ticket stays valid.
const DefaultTicketLifetime = 8 * time.Hour

type StreamingClaims struct {
	AssetUUID string
	jwt.StandardClaims
}

// Tickets creates and validates stream tickets with one secret.
type Tickets struct {
	secret   []byte
	validFor time.Duration
	now      func() time.Time
}

func NewTickets(secret string, validFor time.Duration) *Tickets {
	if validFor <= 0 {
		validFor = DefaultTicketLifetime
	}
	return &Tickets{secret: []byte(secret), validFor: validFor, now: time.Now}
}

// CreateStreamingJWT returns a signed ticket for assetUUID and its expiry.
func (t *Tickets) CreateStreamingJWT(assetUUID string) (string, time.Time, error) {
	expiresAt := t.now().Add(t.validFor)

	claims := StreamingClaims{
		assetUUID,
		jwt.StandardClaims{ExpiresAt: expiresAt.Unix(), IssuedAt: t.now().Unix(), Issuer: issuer},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to sign stream ticket")
	}
	return ss, expiresAt, nil
}

// ValidateStreamingJWT checks the ticket's signature and expiry and returns
// its claims. Every failure wraps errdefs.ErrUnauthorized.
func (t *Tickets) ValidateStreamingJWT(tokenStr string) (*StreamingClaims, error) {
	if tokenStr == "" {
		return nil, errors.Wrap(errdefs.ErrUnauthorized, "no stream ticket")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &StreamingClaims{}, t.secretFunc)
	if err != nil {
		return nil, errors.Wrapf(errdefs.ErrUnauthorized, "invalid stream ticket: %s", err)
	}

	claims, ok := token.Claims.(*StreamingClaims)
	if !ok || !token.Valid {
		return nil, errors.Wrap(errdefs.ErrUnauthorized, "could not validate ticket")
	}
	return claims, nil
}

// Authorize validates tokenStr and checks that it was issued for assetUUID.
func (t *Tickets) Authorize(tokenStr, assetUUID string) error {
	claims, err := t.ValidateStreamingJWT(tokenStr)
	if err != nil {
		return err
	}
	if claims.AssetUUID != assetUUID {
		return errors.Wrapf(errdefs.ErrUnauthorized, "ticket was issued for asset %s", claims.AssetUUID)
	}
	return nil
}

func (t *Tickets) secretFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return t.secret, nil
}

// TokenSecret returns configured if set. Otherwise the secret stored in the
// config directory is used, generating it on first use.
func TokenSecret(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	return secretFromFile(path.Join(helpers.BaseConfigPath(), "ticket.secret"))
}

func secretFromFile(tokenPath string) (string, error) {
	if err := helpers.EnsurePath(path.Dir(tokenPath)); err != nil {
		return "", err
	}
	if helpers.FileExists(tokenPath) {
		secret, err := ioutil.ReadFile(tokenPath)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	log.WithField("path", tokenPath).Infoln("generating new stream ticket secret")
	secret := helpers.RandAlphaString(32)
	err := ioutil.WriteFile(tokenPath, []byte(secret), 0600)
	return secret, err
}
