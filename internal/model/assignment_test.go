package model

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestMissingFieldsSimpleProfile(t *testing.T) {
    assert.Equal(t, []string{"client_id"}, Customer{}.MissingFields(ProfileSimple))
    assert.Empty(t, Customer{ClientID: "c1"}.MissingFields(ProfileSimple))

    // Unknown profiles behave like simple.
    assert.Equal(t, []string{"client_id"}, Customer{}.MissingFields(Profile("bogus")))
}

func TestMissingFieldsContactProfile(t *testing.T) {
    assert.Equal(t,
        []string{"email", "first_name", "last_name", "phone", "shift"},
        Customer{}.MissingFields(ProfileContact))

    partial := Customer{Email: "ana@example.com", FirstName: "Ana", LastName: "Reyes"}
    assert.Equal(t, []string{"phone", "shift"}, partial.MissingFields(ProfileContact))

    full := Customer{
        Email: "ana@example.com", FirstName: "Ana", LastName: "Reyes",
        Phone: "555-0100", Shift: "morning",
    }
    assert.Empty(t, full.MissingFields(ProfileContact))
}

func TestAssignmentActive(t *testing.T) {
    assert.True(t, Assignment{}.Active())
    assert.False(t, Assignment{Redeemed: true}.Active())
}

func TestAssignmentExpired(t *testing.T) {
    exp := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
    a := Assignment{ExpiresAt: exp}
    assert.False(t, a.Expired(exp.Add(-time.Second)))
    assert.False(t, a.Expired(exp), "expiry boundary is inclusive")
    assert.True(t, a.Expired(exp.Add(time.Second)))
}
