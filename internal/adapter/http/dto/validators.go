package dto

import (
"html"
"reflect"
"strings"

"github.com/gin-gonic/gin/binding"
"github.com/go-playground/validator/v10"
)

func init() {
if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
_ = v.RegisterValidation("user_role", validateUserRole)
}
}

// validateUserRole accepts the self-registerable roles. Admin accounts
// are provisioned out of band and can never be requested here.
func validateUserRole(fl validator.FieldLevel) bool {
return validateRoleString(fl.Field().String())
}

func validateRoleString(role string) bool {
switch role {
case "STUDENT", "TEACHER":
return true
}
return false
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field (including *string) of a struct pointer.
func SanitizeStruct(v interface{}) {
rv := reflect.ValueOf(v)
if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
return
}
sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
for i := 0; i < rv.NumField(); i++ {
f := rv.Field(i)
if !f.CanSet() {
continue
}
switch f.Kind() {
case reflect.String:
f.SetString(sanitize(f.String()))
case reflect.Ptr:
if f.IsNil() {
continue
}
elem := f.Elem()
if elem.Kind() == reflect.String {
elem.SetString(sanitize(elem.String()))
}
}
}
}

func sanitize(s string) string {
return html.EscapeString(strings.TrimSpace(s))
}
