// Package sanitizer normalizes guest-supplied contact data before
// validation and storage.
//
// All functions are idempotent and handle invalid input gracefully,
// returning empty strings rather than errors:
//   - Names and free text: collapse internal whitespace, trim ends
//   - Emails: trim and lowercase
//   - Phone numbers: convert to E.164 format (+[country][number])
package sanitizer
