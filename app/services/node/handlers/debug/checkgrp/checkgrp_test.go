package checkgrp_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ardanlabs/ledger/app/services/node/handlers/debug/checkgrp"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Readiness(t *testing.T) {
	st, err := state.New(state.Config{NodeID: "node1"})
	if err != nil {
		t.Fatalf("constructing state: %v", err)
	}

	h := checkgrp.Handlers{
		Build: "test",
		Log:   zap.NewNop().Sugar(),
		State: st,
	}

	check := func() (int, string) {
		w := httptest.NewRecorder()
		h.Readiness(w, httptest.NewRequest(http.MethodGet, "/debug/readiness", nil))

		var resp struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("\t%s\tShould be able to unmarshal the response : %v", failed, err)
		}
		return w.Code, resp.Status
	}

	t.Log("Given the need to report node readiness.")
	{
		t.Logf("\tTest 0:\tWhen the node holds only the genesis block.")
		{
			if code, status := check(); code != http.StatusOK || status != "ok" {
				t.Fatalf("\t%s\tTest 0:\tShould be ready : %d %s", failed, code, status)
			}
			t.Logf("\t%s\tTest 0:\tShould be ready.", success)
		}

		t.Logf("\tTest 1:\tWhen the node holds a block that doesn't link to its parent.")
		{
			st.AppendBlock(0, "not-a-hash")

			if code, status := check(); code != http.StatusInternalServerError || status != "chain invalid" {
				t.Fatalf("\t%s\tTest 1:\tShould not be ready : %d %s", failed, code, status)
			}
			t.Logf("\t%s\tTest 1:\tShould not be ready.", success)
		}
	}
}
