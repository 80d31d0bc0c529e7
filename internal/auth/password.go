package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

// dummyHash is compared against when the user does not exist so that the
// response time does not reveal whether a username is registered.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwertyuiop": {}, "qwerty123": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "trustno1": {},
	"letmein1": {}, "superman": {}, "dragon123": {}, "abc12345": {}, "passw0rd": {},
	"11111111": {}, "00000000": {}, "asdfghjkl": {}, "starwars": {}, "whatever": {},
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. An empty hash is
// compared against a dummy value and always fails.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword returns the problems found with password, empty when it is
// acceptable.
func ValidatePassword(password, username string) []string {
	var problems []string

	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		problems = append(problems, "This password is entirely numeric.")
	}
	if similarToUsername(password, username) {
		problems = append(problems, "The password is too similar to the username.")
	}
	return problems
}

func similarToUsername(password, username string) bool {
	if len(username) < 3 || password == "" {
		return false
	}
	p, u := strings.ToLower(password), strings.ToLower(username)
	return strings.Contains(p, u) || strings.Contains(u, p)
}
