package validate_test

import (
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

type payload struct {
	Sender *string  `json:"sender" validate:"required"`
	Amount *float64 `json:"amount" validate:"required"`
}

func Test_Check(t *testing.T) {
	zero := 0.0
	name := "alice"

	t.Log("Given the need to validate request models.")
	{
		t.Logf("\tTest 0:\tWhen the amount is zero but present.")
		{
			if err := validate.Check(payload{Sender: &name, Amount: &zero}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept a present zero value: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept a present zero value.", success)
		}

		t.Logf("\tTest 1:\tWhen fields are missing.")
		{
			err := validate.Check(payload{})
			if !validate.IsFieldErrors(err) {
				t.Fatalf("\t%s\tTest 1:\tShould return field errors: %v", failed, err)
			}

			fields := validate.GetFieldErrors(err).Fields()
			for _, f := range []string{"sender", "amount"} {
				if _, exists := fields[f]; !exists {
					t.Fatalf("\t%s\tTest 1:\tShould name the %q field: %v", failed, f, fields)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould name every missing field by its json name.", success)
		}
	}
}
