package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/lestrrat-go/jwx/jwk"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/config"
	"github.com/AveloCapital/avelo_backend/middleware"
	"github.com/AveloCapital/avelo_backend/models"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// GoogleAuthService verifies Google ID tokens for staff single sign-on.
// Google login is restricted to existing staff accounts; it never creates
// users.
type GoogleAuthService struct {
	DB *mongo.Client
}

func NewGoogleAuthService(db *mongo.Client) *GoogleAuthService {
	return &GoogleAuthService{DB: db}
}

// AuthenticateStaff verifies the ID token against Google's published keys,
// looks up the matching staff account and issues portal tokens.
func (s *GoogleAuthService) AuthenticateStaff(ctx context.Context, idToken string) (*models.LoginData, error) {
	claims, err := s.verifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	email, _ := claims["email"].(string)
	sub, _ := claims["sub"].(string)
	if email == "" || sub == "" {
		return nil, fmt.Errorf("google token missing email or subject")
	}

	collection := config.GetCollection(s.DB, "users")

	var user models.User
	err = collection.FindOne(ctx, bson.M{"googleId": sub}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		err = collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	}
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no account for %s", email)
		}
		return nil, err
	}

	if !models.HasCapability(user.Role, models.CapabilityStaff) {
		return nil, fmt.Errorf("google login is restricted to staff accounts")
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	// Bind the Google subject on first SSO login
	if user.GoogleID == "" {
		_, err = collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
			"$set": bson.M{"googleId": sub, "updatedAt": time.Now()},
		})
		if err != nil {
			return nil, err
		}
		user.GoogleID = sub
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	_, _ = collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"lastActivityAt": time.Now()},
	})

	user.Password = ""
	return &models.LoginData{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// verifyIDToken checks the token signature against Google's JWKS and
// validates issuer, audience and expiry.
func (s *GoogleAuthService) verifyIDToken(ctx context.Context, idToken string) (jwt.MapClaims, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid token format")
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT header: %w", err)
	}
	var header struct {
		Kid string `json:"kid"`
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("invalid JWT header JSON: %w", err)
	}

	jwkSet, err := jwk.Fetch(ctx, googleJWKSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google public keys: %w", err)
	}

	key, found := jwkSet.LookupKeyID(header.Kid)
	if !found {
		return nil, fmt.Errorf("no Google key for kid %s", header.Kid)
	}

	var pubkey interface{}
	if err := key.Raw(&pubkey); err != nil {
		return nil, fmt.Errorf("failed to materialize Google public key: %w", err)
	}

	parsed, err := jwt.Parse(idToken, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != header.Alg {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return pubkey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to extract claims")
	}

	iss, _ := claims["iss"].(string)
	if iss != "https://accounts.google.com" && iss != "accounts.google.com" {
		return nil, fmt.Errorf("invalid token issuer: %s", iss)
	}

	if clientID := googleClientID(); clientID != "" {
		aud, _ := claims["aud"].(string)
		if aud != clientID {
			return nil, fmt.Errorf("invalid token audience")
		}
	}

	if exp, ok := claims["exp"].(float64); ok {
		if time.Unix(int64(exp), 0).Before(time.Now()) {
			return nil, fmt.Errorf("token expired")
		}
	}

	return claims, nil
}

func googleClientID() string {
	return strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_ID"))
}
