package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubConn struct{ id string }

func (c stubConn) ID() string     { return c.id }
func (c stubConn) Send(any) error { return nil }
func (c stubConn) Close() error   { return nil }

func newTestRoom(ids ...string) *Room {
	r := &Room{Id: "room", Settings: DefaultSettings(), Phase: PhaseState{Current: PhaseLobby}}
	for _, id := range ids {
		r.AddParticipant(NewPlayer(id, "token-"+id, id, stubConn{id: "conn-" + id}))
	}
	return r
}

func TestRoom_HostIsFirstActiveParticipant(t *testing.T) {
	req := require.New(t)
	r := newTestRoom("a", "b", "c")
	req.Equal("a", r.HostID())

	// When the host drops
	r.Participant("a").Player.Detach(stubConn{id: "conn-a"})

	// Then the next attached participant hosts
	req.Equal("b", r.HostID())

	// And with nobody attached the first non-removed entry remains host
	r.Participant("b").Player.Detach(stubConn{id: "conn-b"})
	r.Participant("c").Player.Detach(stubConn{id: "conn-c"})
	req.Equal("a", r.HostID())

	r.MarkRemoved("a")
	req.Equal("b", r.HostID())
}

func TestRoom_AddParticipant(t *testing.T) {
	req := require.New(t)
	r := newTestRoom("a")
	p := r.Participant("a").Player

	_, added := r.AddParticipant(p)
	req.False(added)
	req.Len(r.Participants, 1)

	// A removed entry is restored in place
	req.NotNil(r.MarkRemoved("a"))
	req.Nil(r.MarkRemoved("a"))
	state, added := r.AddParticipant(p)
	req.True(added)
	req.False(state.Removed)
	req.Len(r.Participants, 1)
}

func TestRoom_RemoveAndPrune(t *testing.T) {
	req := require.New(t)
	r := newTestRoom("a", "b", "c")

	req.NotNil(r.RemoveParticipant("b"))
	req.Nil(r.RemoveParticipant("b"))
	req.Len(r.Participants, 2)

	r.MarkRemoved("c")
	pruned := r.PruneRemoved()
	req.Len(pruned, 1)
	req.Equal("c", pruned[0].Player.UserId)
	req.Len(r.Participants, 1)
}

func TestRoom_CanAdvance(t *testing.T) {
	req := require.New(t)
	r := newTestRoom("a", "b")
	for _, s := range r.Participants {
		s.Player.SetReady(true)
	}

	// Lobby needs three ready players
	req.True(r.AreAllPlayersReady())
	req.False(r.CanAdvance())

	r.AddParticipant(NewPlayer("c", "token-c", "c", stubConn{id: "conn-c"}))
	req.False(r.CanAdvance())
	r.Participant("c").Player.SetReady(true)
	req.True(r.CanAdvance())

	// Other phases only need everyone active to be ready
	r.Phase.Current = PhaseDrawing
	r.MarkRemoved("c")
	r.RemoveParticipant("b")
	req.True(r.CanAdvance())

	r.ResetReady()
	req.False(r.CanAdvance())
}

func TestRoom_CanAdvance_EmptyRoom(t *testing.T) {
	r := newTestRoom()
	r.Phase.Current = PhaseVoting
	require.False(t, r.CanAdvance())
}

func TestRoom_RecordVote(t *testing.T) {
	req := require.New(t)
	r := newTestRoom("a", "b", "c")

	err := r.RecordVote("a", "b")
	req.True(errors.Is(err, ErrProtocol))

	r.Phase.Current = PhaseVoting
	req.NoError(r.RecordVote("a", "b"))
	req.NoError(r.RecordVote("a", "c"))
	req.Equal("c", r.Participant("a").Vote)

	req.ErrorIs(r.RecordVote("a", "nobody"), ErrNotFound)
	req.ErrorIs(r.RecordVote("nobody", "a"), ErrNotFound)

	r.MarkRemoved("b")
	req.ErrorIs(r.RecordVote("b", "a"), ErrNotFound)
}

func TestRoom_Artifacts(t *testing.T) {
	req := require.New(t)
	r := newTestRoom("a", "b", "c")

	req.ErrorIs(r.RecordArtifact("a", "mask"), ErrProtocol)

	r.Phase.Current = PhaseDrawing
	req.NoError(r.RecordArtifact("a", "mask-a"))
	r.Phase.Current = PhaseCutsceneMakeTheMask
	req.NoError(r.RecordArtifact("b", "mask-b"))
	req.ErrorIs(r.RecordArtifact("z", "mask-z"), ErrNotFound)

	r.MarkRemoved("b")
	req.Equal(map[string]string{"a": "mask-a", "c": ""}, r.Artifacts())
}

func TestRoom_ResetRoundStateAndScores(t *testing.T) {
	req := require.New(t)
	r := newTestRoom("a", "b")
	a := r.Participant("a")
	a.IsEvil = true
	a.Vote = "b"
	a.Artifact = "mask"
	a.Requirements = []string{"Horns"}
	a.Score = 15
	r.RoundNumber = 2
	r.Result = &RoundResult{Outcome: OutcomeTie}
	req.Same(a, r.Evil())

	r.ResetRoundState()
	req.Nil(r.Evil())
	req.Empty(a.Vote)
	req.Empty(a.Artifact)
	req.Nil(a.Requirements)
	req.Nil(r.Result)
	req.Equal(15, a.Score)

	r.ResetScores()
	req.Zero(a.Score)
	req.Zero(r.RoundNumber)
}

func TestRoom_SnapshotsAndListEntry(t *testing.T) {
	req := require.New(t)
	r := newTestRoom("a", "b", "c")
	r.Name = "Ballroom"
	r.Participant("a").Score = 7
	r.MarkRemoved("c")

	snaps := r.Snapshots()
	req.Len(snaps, 2)
	req.Equal(7, snaps[0].Score)
	req.True(snaps[0].Connected)

	entry := r.ListEntry()
	req.Equal(RoomListEntry{RoomId: "room", RoomName: "Ballroom", CurrentPhase: PhaseLobby, PlayerCount: 2}, entry)
}
