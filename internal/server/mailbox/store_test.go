package mailbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophmail/internal/common"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func record(subject string) Record {
	return Record{
		Sender:      "alice@glo2000.ca",
		Destination: "bob@glo2000.ca",
		Subject:     subject,
		Date:        "Mon, 06 Nov 2023 18:12:02 +0000",
		Content:     "hello\n",
	}
}

func TestNewStore_CreatesRootAndLost(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	_, err := NewStore(root)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, LostMailbox))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreate_ThenExistsAndCredential(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Create("Alice", "deadbeef"))

	assert.True(t, s.Exists("alice"))
	assert.True(t, s.Exists("ALICE"), "existence check must be case-insensitive")

	hash, err := s.Credential("aLiCe")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", hash)
}

func TestCreate_DuplicateAnyCase(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Create("alice", "deadbeef"))

	for _, name := range []string{"alice", "Alice", "ALICE"} {
		err := s.Create(name, "cafebabe")
		assert.ErrorIs(t, err, common.ErrUsernameTaken, "variant %q", name)
	}
}

func TestCreate_ReservedLostName(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"lost", "Lost", "LOST"} {
		err := s.Create(name, "deadbeef")
		assert.ErrorIs(t, err, common.ErrInvalidUsername, "variant %q", name)
	}
}

func TestCreate_RejectsPathEscapes(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		err := s.Create(name, "deadbeef")
		assert.ErrorIs(t, err, common.ErrInvalidUsername, "name %q", name)
	}
}

func TestCredential_NoSuchUser(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Credential("ghost")
	assert.ErrorIs(t, err, common.ErrNoSuchUser)
}

func TestList_EmptyInbox(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("alice", "deadbeef"))

	summaries, err := s.List("alice")
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestStoreAndList_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("alice", "deadbeef"))

	require.NoError(t, s.Store("alice", record("first")))
	require.NoError(t, s.Store("alice", record("second")))
	require.NoError(t, s.Store("alice", record("third")))

	summaries, err := s.List("alice")
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "third", summaries[0].Subject)
	assert.Equal(t, "second", summaries[1].Subject)
	assert.Equal(t, "first", summaries[2].Subject)

	for i, sum := range summaries {
		assert.Equal(t, i+1, sum.Seq)
	}
}

func TestGet_RoundTripsStoredRecord(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("alice", "deadbeef"))

	want := record("hi")
	require.NoError(t, s.Store("alice", want))

	got, err := s.Get("alice", 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGet_InvalidChoice(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("alice", "deadbeef"))
	require.NoError(t, s.Store("alice", record("only")))

	for _, n := range []int{0, -1, 2} {
		_, err := s.Get("alice", n)
		assert.ErrorIs(t, err, common.ErrInvalidChoice, "choice %d", n)
	}
}

func TestStats_ExcludesCredentialRecord(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("alice", "deadbeef"))

	empty, err := s.Stats("alice")
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Size)

	var wantSize int64
	const n = 4
	for i := 0; i < n; i++ {
		require.NoError(t, s.Store("alice", record("msg")))
	}

	entries, err := os.ReadDir(filepath.Join(s.root, "alice"))
	require.NoError(t, err)
	for _, e := range entries {
		if e.Name() == credentialFile {
			continue
		}
		info, err := e.Info()
		require.NoError(t, err)
		wantSize += info.Size()
	}

	st, err := s.Stats("alice")
	require.NoError(t, err)
	assert.Equal(t, n, st.Count)
	assert.Equal(t, wantSize, st.Size)
}

func TestStore_LostMailbox(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Store(LostMailbox, record("undeliverable")))

	summaries, err := s.List(LostMailbox)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestStore_RecordIdentifiersNeverCollide(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("alice", "deadbeef"))

	// Back-to-back deliveries can share a wall-clock timestamp; the sequence
	// suffix must keep them distinct and correctly ordered.
	const n = 50
	for i := 0; i < n; i++ {
		require.NoError(t, s.Store("alice", record("burst")))
	}

	st, err := s.Stats("alice")
	require.NoError(t, err)
	assert.Equal(t, n, st.Count)
}
