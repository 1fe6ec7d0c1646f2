package dto

import (
"testing"

"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
req := RegisterRequest{
FullName: "  Nguyen Van A  ",
Email:    "  alice@example.com  ",
Password: "  pass1234  ",
}
SanitizeStruct(&req)

assert.Equal(t, "Nguyen Van A", req.FullName)
assert.Equal(t, "alice@example.com", req.Email)
assert.Equal(t, "pass1234", req.Password)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
req := RegisterRequest{
FullName: "Alice <script>alert('x')</script>",
Email:    "alice@example.com",
Password: "password123",
}
SanitizeStruct(&req)

assert.Contains(t, req.FullName, "&lt;script&gt;")
assert.NotContains(t, req.FullName, "<script>")
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
s := "hello"
SanitizeStruct(s) // should not panic
}

func TestSanitizeStruct_CheckoutRequest(t *testing.T) {
req := CheckoutRequest{
CourseIDs: []string{"b2bd2b5e-1c77-4ff2-9f3b-233d6ad32a4e"},
}
SanitizeStruct(&req)

// Slice fields pass through untouched.
assert.Equal(t, "b2bd2b5e-1c77-4ff2-9f3b-233d6ad32a4e", req.CourseIDs[0])
}

// --- Custom validator tests ---

func TestUserRole_Valid(t *testing.T) {
for _, tc := range []string{"STUDENT", "TEACHER"} {
req := RegisterRequest{Role: tc}
assert.True(t, validateRoleString(req.Role), "expected valid: %s", tc)
}
}

func TestUserRole_Invalid(t *testing.T) {
for _, tc := range []string{"ADMIN", "student", "root", ""} {
assert.False(t, validateRoleString(tc), "expected invalid: %s", tc)
}
}
