package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

func TestCreateCustomer(t *testing.T) {
	env := newTestEnv(t)

	employee := env.seedUser(t, "Bob", "bob@greenvale.com", "pw-bob-123", models.RoleEmployee)
	admin := env.seedUser(t, "Ada", "ada@greenvale.com", "pw-ada-123", models.RoleAdmin)

	t.Run("staff creates customer", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/customers", env.token(t, employee), map[string]string{
			"name":     "Cora",
			"email":    "cora@example.com",
			"password": "gardenpath1",
			"address":  "12 Fern Lane",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}

		var stored models.User
		if err := env.db.Where("email = ?", "cora@example.com").First(&stored).Error; err != nil {
			t.Fatalf("customer not stored: %v", err)
		}
		if stored.Role != models.RoleCustomer {
			t.Fatalf("role = %q", stored.Role)
		}
	})

	t.Run("duplicate email conflicts and leaves original untouched", func(t *testing.T) {
		var before models.User
		env.db.Where("email = ?", "cora@example.com").First(&before)

		w := env.do(t, http.MethodPost, "/api/customers", env.token(t, employee), map[string]string{
			"name":     "Impostor",
			"email":    "cora@example.com",
			"password": "different1",
		})
		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", w.Code)
		}

		var after models.User
		env.db.Where("email = ?", "cora@example.com").First(&after)
		if after.Name != before.Name || after.PasswordHash != before.PasswordHash {
			t.Fatal("existing account was modified by the conflicting create")
		}
	})

	t.Run("employee cannot assign staff roles", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/customers", env.token(t, employee), map[string]string{
			"name":     "Eve",
			"email":    "eve@example.com",
			"password": "password123",
			"role":     models.RoleAdmin,
		})
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}

		var count int64
		env.db.Model(&models.User{}).Where("email = ?", "eve@example.com").Count(&count)
		if count != 0 {
			t.Fatal("account was created despite forbidden role")
		}
	})

	t.Run("admin assigns employee role", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/customers", env.token(t, admin), map[string]string{
			"name":     "Crew",
			"email":    "crew@greenvale.com",
			"password": "crewsecret1",
			"role":     models.RoleEmployee,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("omitted password yields invitation", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/customers", env.token(t, employee), map[string]string{
			"name":  "Invited",
			"email": "invited@example.com",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}

		var resp struct {
			InvitationToken string `json:"invitation_token"`
		}
		decode(t, w, &resp)
		if resp.InvitationToken == "" {
			t.Fatal("no invitation_token in response")
		}

		var inv models.Invitation
		if err := env.db.Where("token = ?", resp.InvitationToken).First(&inv).Error; err != nil {
			t.Fatalf("invitation not stored: %v", err)
		}
	})

	t.Run("customer cannot create accounts", func(t *testing.T) {
		var cora models.User
		env.db.Where("email = ?", "cora@example.com").First(&cora)

		w := env.do(t, http.MethodPost, "/api/customers", env.token(t, &cora), map[string]string{
			"name":     "Sneaky",
			"email":    "sneaky@example.com",
			"password": "password123",
		})
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})
}

func TestCreateCustomerDuplicateRace(t *testing.T) {
	env := newTestEnv(t)
	employee := env.seedUser(t, "Bob", "bob@greenvale.com", "pw-bob-123", models.RoleEmployee)

	// Slip an identical account in between the handler's duplicate check
	// and its own insert, so the unique index on email is what fires.
	raced := false
	err := env.db.Callback().Create().Before("gorm:create").Register("race_duplicate", func(tx *gorm.DB) {
		if raced {
			return
		}
		if _, ok := tx.Statement.Dest.(*models.User); !ok {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO users (name, email, role) VALUES (?, ?, ?)",
			"First", "race@example.com", models.RoleCustomer,
		)
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	w := env.do(t, http.MethodPost, "/api/customers", env.token(t, employee), map[string]string{
		"name":     "Second",
		"email":    "race@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s, want 409", w.Code, w.Body.String())
	}

	var count int64
	env.db.Model(&models.User{}).Where("email = ?", "race@example.com").Count(&count)
	if count > 1 {
		t.Fatalf("duplicate accounts stored: %d", count)
	}
}

func TestCustomerLookups(t *testing.T) {
	env := newTestEnv(t)

	employee := env.seedUser(t, "Bob", "bob@greenvale.com", "pw-bob-123", models.RoleEmployee)
	cora := env.seedUser(t, "Cora", "cora@example.com", "gardenpath1", models.RoleCustomer)
	env.seedUser(t, "Dan", "dan@example.com", "gardenpath2", models.RoleCustomer)

	t.Run("list customers excludes staff", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/customers", env.token(t, employee), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}

		var resp struct {
			Data  []models.User `json:"data"`
			Total int           `json:"total"`
		}
		decode(t, w, &resp)
		if resp.Total != 2 {
			t.Fatalf("total = %d, want 2", resp.Total)
		}
		for _, u := range resp.Data {
			if u.Role != models.RoleCustomer {
				t.Fatalf("non-customer %q in listing", u.Email)
			}
		}
	})

	t.Run("customer by id", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/customers/1000", env.token(t, employee), nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("missing id status = %d, want 404", w.Code)
		}

		w = env.do(t, http.MethodGet, fmt.Sprintf("/api/customers/%d", cora.ID), env.token(t, employee), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var got models.User
		decode(t, w, &got)
		if got.Email != cora.Email {
			t.Fatalf("email = %q, want %q", got.Email, cora.Email)
		}
	})
}
