package state_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const nodeID = "8a6b4f1e2c3d4e5f8a6b4f1e2c3d4e5f"

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func newState(t *testing.T) *state.State {
	st, err := state.New(state.Config{
		NodeID: nodeID,
		Host:   "localhost:8080",
	})
	ifErrFailNow(t, err)

	return st
}

// =============================================================================

func Test_New(t *testing.T) {
	st := newState(t)

	if l := st.RetrieveChainLength(); l != 1 {
		t.Fatalf("\t%s\tShould start with one block: got %d", failed, l)
	}
	t.Logf("\t%s\tShould start with one block.", success)

	genesis := st.RetrieveLatestBlock()
	if genesis.Index != 1 || genesis.Proof != database.GenesisProof || genesis.PrevHash != database.GenesisPrevHash {
		t.Fatalf("\t%s\tShould start with the genesis block: got %+v", failed, genesis)
	}
	t.Logf("\t%s\tShould start with the genesis block.", success)

	if _, err := state.New(state.Config{}); err == nil {
		t.Fatalf("\t%s\tShould require a node id.", failed)
	}
	t.Logf("\t%s\tShould require a node id.", success)
}

func Test_SubmitAndAppend(t *testing.T) {
	st := newState(t)

	t.Log("Given the need to batch transactions into blocks.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the latest block has index 3.", testID)
		{
			st.AppendBlock(1, "")
			st.AppendBlock(2, "")

			if index := st.SubmitTransaction(database.NewTx("A", "B", 10)); index != 4 {
				t.Fatalf("\t%s\tTest %d:\tShould target block 4: got %d", failed, testID, index)
			}
			t.Logf("\t%s\tTest %d:\tShould target block 4.", success, testID)

			submitted := []database.Tx{
				database.NewTx("A", "B", 10),
				database.NewTx("B", "C", 2.5),
				database.NewTx("C", "A", 0),
			}
			for _, tx := range submitted[1:] {
				st.SubmitTransaction(tx)
			}

			prev := st.RetrieveLatestBlock()
			block := st.AppendBlock(77, "")

			if len(st.RetrieveMempool()) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould drain the mempool.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould drain the mempool.", success, testID)

			if len(block.Trans) != len(submitted) {
				t.Fatalf("\t%s\tTest %d:\tShould hold every submitted transaction: got %d", failed, testID, len(block.Trans))
			}
			for i, tx := range block.Trans {
				if tx != submitted[i] {
					t.Fatalf("\t%s\tTest %d:\tShould keep submission order: got %s, exp %s", failed, testID, tx, submitted[i])
				}
			}
			t.Logf("\t%s\tTest %d:\tShould hold every submitted transaction in order.", success, testID)

			if block.Index != 4 || block.Proof != 77 || block.PrevHash != prev.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould link to the previous block: got %+v", failed, testID, block)
			}
			t.Logf("\t%s\tTest %d:\tShould link to the previous block.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a previous hash is provided.", testID)
		{
			block := st.AppendBlock(5, "feedface")
			if block.PrevHash != "feedface" || len(block.Trans) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould use the provided hash: got %+v", failed, testID, block)
			}
			t.Logf("\t%s\tTest %d:\tShould use the provided hash.", success, testID)
		}
	}
}

func Test_ConcurrentSubmitAppend(t *testing.T) {
	st := newState(t)

	const submitters = 20
	const perSubmitter = 50
	const appends = 25

	var wg sync.WaitGroup
	wg.Add(submitters + 1)

	for i := 0; i < submitters; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perSubmitter; j++ {
				st.SubmitTransaction(database.NewTx("A", "B", 1))
			}
		}()
	}

	go func() {
		defer wg.Done()
		for i := 0; i < appends; i++ {
			st.AppendBlock(uint64(i), "")
		}
	}()

	wg.Wait()

	total := len(st.RetrieveMempool())
	for _, block := range st.RetrieveChain() {
		total += len(block.Trans)
	}

	if total != submitters*perSubmitter {
		t.Fatalf("\t%s\tShould not lose or duplicate transactions: got %d, exp %d", failed, total, submitters*perSubmitter)
	}
	t.Logf("\t%s\tShould not lose or duplicate transactions.", success)
}

func Test_MineNewBlock(t *testing.T) {
	st := newState(t)

	st.SubmitTransaction(database.NewTx("A", "B", 10))

	block, err := st.MineNewBlock(context.Background())
	ifErrFailNow(t, err)

	if block.Index != 2 {
		t.Fatalf("\t%s\tShould mine block 2: got %d", failed, block.Index)
	}
	t.Logf("\t%s\tShould mine block 2.", success)

	if len(block.Trans) != 2 {
		t.Fatalf("\t%s\tShould hold the submitted and reward transactions: got %d", failed, len(block.Trans))
	}
	reward := block.Trans[1]
	if reward.Sender != database.RewardSender || reward.Recipient != nodeID || reward.Amount != database.MiningReward {
		t.Fatalf("\t%s\tShould reward this node: got %s", failed, reward)
	}
	t.Logf("\t%s\tShould reward this node.", success)

	if err := database.ValidateChain(st.RetrieveChain()); err != nil {
		t.Fatalf("\t%s\tShould produce a valid chain: %v", failed, err)
	}
	t.Logf("\t%s\tShould produce a valid chain.", success)

	if _, err := st.Mine(context.Background()); !errors.Is(err, state.ErrNoWorker) {
		t.Fatalf("\t%s\tShould require a worker to mine through the state: %v", failed, err)
	}
	t.Logf("\t%s\tShould require a worker to mine through the state.", success)
}

func Test_MineChainChanged(t *testing.T) {
	var st *state.State
	var once sync.Once

	// When the proof is found, append a block behind the miner's back
	// before it gets the lock.
	ev := func(v string, args ...any) {
		if strings.Contains(v, "MINING: SOLVED") {
			once.Do(func() { st.AppendBlock(1, "") })
		}
	}

	var err error
	st, err = state.New(state.Config{NodeID: nodeID, EvHandler: ev})
	ifErrFailNow(t, err)

	st.SubmitTransaction(database.NewTx("A", "B", 10))

	if _, err := st.MineNewBlock(context.Background()); !errors.Is(err, state.ErrChainChanged) {
		t.Fatalf("\t%s\tShould discard a block mined on a stale tip: %v", failed, err)
	}
	t.Logf("\t%s\tShould discard a block mined on a stale tip.", success)

	chain := st.RetrieveChain()
	if len(chain) != 2 {
		t.Fatalf("\t%s\tShould only hold the interleaved block: got %d", failed, len(chain))
	}
	for _, tx := range chain[1].Trans {
		if tx.Sender == database.RewardSender {
			t.Fatalf("\t%s\tShould not pay a reward for a discarded block.", failed)
		}
	}
	t.Logf("\t%s\tShould not pay a reward for a discarded block.", success)
}

func Test_RegisterPeers(t *testing.T) {
	st := newState(t)

	hosts, err := st.RegisterPeers([]string{"http://localhost:5001", "http://localhost:5001/chain", "http://localhost:5002"})
	ifErrFailNow(t, err)

	if len(hosts) != 2 || hosts[0] != "localhost:5001" || hosts[1] != "localhost:5002" {
		t.Fatalf("\t%s\tShould register each network location once: got %v", failed, hosts)
	}
	t.Logf("\t%s\tShould register each network location once.", success)

	_, err = st.RegisterPeers([]string{"http://localhost:5003", "localhost:5004"})
	if !errors.Is(err, peer.ErrInvalidAddress) {
		t.Fatalf("\t%s\tShould reject malformed addresses: %v", failed, err)
	}
	t.Logf("\t%s\tShould reject malformed addresses.", success)

	if hosts := st.RetrieveKnownHosts(); len(hosts) != 2 {
		t.Fatalf("\t%s\tShould not register anything from a rejected request: got %v", failed, hosts)
	}
	t.Logf("\t%s\tShould not register anything from a rejected request.", success)
}

func Test_AddKnownPeer(t *testing.T) {
	st := newState(t)

	t.Log("Given the need to seed known peers.")
	{
		if !st.AddKnownPeer(peer.New("localhost:5001")) {
			t.Fatalf("\t%s\tShould add a new peer.", failed)
		}
		t.Logf("\t%s\tShould add a new peer.", success)

		if st.AddKnownPeer(peer.New("localhost:5001")) {
			t.Fatalf("\t%s\tShould report a known peer as not added.", failed)
		}
		t.Logf("\t%s\tShould report a known peer as not added.", success)

		if hosts := st.RetrieveKnownHosts(); len(hosts) != 1 || hosts[0] != "localhost:5001" {
			t.Fatalf("\t%s\tShould hold the peer once: got %v", failed, hosts)
		}
		t.Logf("\t%s\tShould hold the peer once.", success)
	}
}

func Test_RetrieveReturnsCopies(t *testing.T) {
	st := newState(t)

	for i := 0; i < 2; i++ {
		st.SubmitTransaction(database.NewTx("A", "B", 10))
		_, err := st.MineNewBlock(context.Background())
		ifErrFailNow(t, err)
	}

	before := st.RetrieveChain()

	t.Log("Given the need to hand out the chain without exposing the ledger.")
	{
		t.Logf("\tTest 0:\tWhen a caller changes the transactions of returned blocks.")
		{
			st.RetrieveChain()[1].Trans[0].Amount = 999
			st.RetrieveLatestBlock().Trans[0].Recipient = "mallory"

			after := st.RetrieveChain()

			if after[1].Trans[0].Amount != 10 || after[2].Trans[0].Recipient != "B" {
				t.Fatalf("\t%s\tTest 0:\tShould leave the ledger's blocks unchanged: got %s / %s", failed, after[1].Trans[0], after[2].Trans[0])
			}
			t.Logf("\t%s\tTest 0:\tShould leave the ledger's blocks unchanged.", success)

			for i := range before {
				if before[i].Hash() != after[i].Hash() {
					t.Fatalf("\t%s\tTest 0:\tShould keep block %d's hash.", failed, i+1)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould keep every block hash.", success)

			if err := database.ValidateChain(after); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould keep a valid chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould keep a valid chain.", success)
		}
	}
}

// =============================================================================

func Test_ResolveConflicts(t *testing.T) {
	longer := minedChain(t, 3)
	shorter := minedChain(t, 1)

	broken := minedChain(t, 4)
	broken[2].PrevHash = "corrupted"

	type table struct {
		name     string
		handler  http.HandlerFunc
		replaced bool
		expLen   int
	}

	tt := []table{
		{"longer-valid", serveChain(state.NewChainResponse(longer)), true, 3},
		{"shorter-valid", serveChain(state.NewChainResponse(shorter)), false, 2},
		{"longer-invalid", serveChain(state.NewChainResponse(broken)), false, 2},
		{"length-mismatch", serveChain(state.ChainResponse{Chain: longer, Length: 5}), false, 2},
		{"bad-status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}, false, 2},
		{"bad-json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chain": [`))
		}, false, 2},
		{"missing-fields", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}, false, 2},
	}

	t.Log("Given the need to follow the longest valid chain.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				srv := httptest.NewServer(chainMux(tst.handler))
				defer srv.Close()

				st := newState(t)
				_, err := st.MineNewBlock(context.Background())
				ifErrFailNow(t, err)

				_, err = st.RegisterPeers([]string{srv.URL})
				ifErrFailNow(t, err)

				replaced := st.ResolveConflicts(context.Background())
				if replaced != tst.replaced {
					t.Fatalf("\t%s\tTest %d:\tShould get replaced[%v].", failed, testID, tst.replaced)
				}
				t.Logf("\t%s\tTest %d:\tShould get replaced[%v].", success, testID, tst.replaced)

				if l := st.RetrieveChainLength(); l != tst.expLen {
					t.Fatalf("\t%s\tTest %d:\tShould have length %d: got %d", failed, testID, tst.expLen, l)
				}
				t.Logf("\t%s\tTest %d:\tShould have length %d.", success, testID, tst.expLen)

				if tst.replaced && st.RetrieveLatestBlock().Hash() != longer[len(longer)-1].Hash() {
					t.Fatalf("\t%s\tTest %d:\tShould adopt the peer's chain.", failed, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_ResolveConflictsUnreachable(t *testing.T) {
	srv := httptest.NewServer(chainMux(serveChain(state.NewChainResponse(minedChain(t, 3)))))
	url := srv.URL
	srv.Close()

	st := newState(t)
	_, err := st.RegisterPeers([]string{url})
	ifErrFailNow(t, err)

	if st.ResolveConflicts(context.Background()) {
		t.Fatalf("\t%s\tShould skip an unreachable peer.", failed)
	}
	t.Logf("\t%s\tShould skip an unreachable peer.", success)

	if _, err := st.NetRequestPeerChain(context.Background(), peer.New(strings.TrimPrefix(url, "http://"))); !errors.Is(err, state.ErrPeerUnreachable) {
		t.Fatalf("\t%s\tShould report the peer unreachable: %v", failed, err)
	}
	t.Logf("\t%s\tShould report the peer unreachable.", success)
}

func Test_ResolveConflictsPicksLongest(t *testing.T) {
	mid := httptest.NewServer(chainMux(serveChain(state.NewChainResponse(minedChain(t, 3)))))
	defer mid.Close()

	longest := minedChain(t, 4)
	top := httptest.NewServer(chainMux(serveChain(state.NewChainResponse(longest))))
	defer top.Close()

	st := newState(t)
	_, err := st.RegisterPeers([]string{mid.URL, top.URL})
	ifErrFailNow(t, err)

	if !st.ResolveConflicts(context.Background()) {
		t.Fatalf("\t%s\tShould replace the chain.", failed)
	}

	if st.RetrieveLatestBlock().Hash() != longest[len(longest)-1].Hash() {
		t.Fatalf("\t%s\tShould adopt the longest chain regardless of order.", failed)
	}
	t.Logf("\t%s\tShould adopt the longest chain regardless of order.", success)
}

// =============================================================================

// minedChain builds a valid chain of the specified length.
func minedChain(t *testing.T, length int) []database.Block {
	st, err := state.New(state.Config{NodeID: "peer"})
	ifErrFailNow(t, err)

	for st.RetrieveChainLength() < length {
		st.SubmitTransaction(database.NewTx("A", "B", 1))
		_, err := st.MineNewBlock(context.Background())
		ifErrFailNow(t, err)
	}

	return st.RetrieveChain()
}

func chainMux(h http.HandlerFunc) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chain", h)
	return mux
}

func serveChain(resp state.ChainResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
