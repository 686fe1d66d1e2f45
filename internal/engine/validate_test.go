package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"president/internal/domain"
)

func TestPlayOutOfTurn(t *testing.T) {
	e, roomID, ids := newRoom(t, 3)
	rigPlay(t, e, roomID, ids,
		[]string{"5S"}, []string{"6S"}, []string{"7S"})

	err := e.PlayCards(roomID, ids[1], []string{"6S"})
	assert.Equal(t, KindNotYourTurn, KindOf(err))
	err = e.PlayCards(roomID, "ghost", []string{"6S"})
	assert.Equal(t, KindNotYourTurn, KindOf(err))
}

func TestPlayUnownedCard(t *testing.T) {
	e, roomID, ids := newRoom(t, 3)
	rigPlay(t, e, roomID, ids,
		[]string{"5S"}, []string{"6S"}, []string{"7S"})

	err := e.PlayCards(roomID, ids[0], []string{"6S"})
	assert.Equal(t, KindOwnershipMismatch, KindOf(err))
}

func TestPlaySelectionShape(t *testing.T) {
	e, roomID, ids := newRoom(t, 3)
	rigPlay(t, e, roomID, ids,
		[]string{"5S", "5H", "6D"}, []string{"6S"}, []string{"7S"})

	err := e.PlayCards(roomID, ids[0], nil)
	assert.Equal(t, KindPatternMismatch, KindOf(err))

	err = e.PlayCards(roomID, ids[0], []string{"5S", "5S"})
	assert.Equal(t, KindPatternMismatch, KindOf(err))

	err = e.PlayCards(roomID, ids[0], []string{"5S", "6D"})
	assert.Equal(t, KindPatternMismatch, KindOf(err))

	// jokers mix with any regular rank
	rig(t, e, roomID, func(s *domain.RoomState) {
		s.Players[ids[0]].Hand = []string{"5S", "JOKERa", "3C"}
	})
	require.NoError(t, e.PlayCards(roomID, ids[0], []string{"5S", "JOKERa"}))
	s := stateOf(t, e, roomID)
	assert.Equal(t, domain.Five, s.Pattern.Rank)
	assert.Equal(t, 2, s.Pattern.Count)
}

func TestFollowUpCountAndRank(t *testing.T) {
	e, roomID, ids := newRoom(t, 3)
	rigPlay(t, e, roomID, ids,
		[]string{"5S", "5H"}, []string{"6S", "6H", "4D", "5C"}, []string{"KS", "KH"})
	require.NoError(t, e.PlayCards(roomID, ids[0], []string{"5S", "5H"}))

	err := e.PlayCards(roomID, ids[1], []string{"6S"})
	assert.Equal(t, KindPatternMismatch, KindOf(err), "count must match")

	err = e.PlayCards(roomID, ids[1], []string{"4D", "5C"})
	assert.Equal(t, KindPatternMismatch, KindOf(err), "follow-up must be uniform")

	rig(t, e, roomID, func(s *domain.RoomState) { s.Players[ids[1]].Hand = []string{"4D", "4C"} })
	err = e.PlayCards(roomID, ids[1], []string{"4D", "4C"})
	assert.Equal(t, KindRankTooLow, KindOf(err))

	rig(t, e, roomID, func(s *domain.RoomState) { s.Players[ids[1]].Hand = []string{"5D", "5C"} })
	err = e.PlayCards(roomID, ids[1], []string{"5D", "5C"})
	assert.Equal(t, KindRankTooLow, KindOf(err), "equal rank does not beat")
}

func TestFirstPlayMustBeThrees(t *testing.T) {
	e, roomID, ids := newRoom(t, 3)
	rigPlay(t, e, roomID, ids,
		[]string{"3D", "3S", "JOKERa", "KD"}, []string{"6S"}, []string{"7S"})
	rig(t, e, roomID, func(s *domain.RoomState) { s.FirstGame = true })

	err := e.PlayCards(roomID, ids[0], []string{"KD"})
	assert.Equal(t, KindPatternMismatch, KindOf(err))

	// jokers may substitute into the opening threes
	require.NoError(t, e.PlayCards(roomID, ids[0], []string{"3D", "3S", "JOKERa"}))
	s := stateOf(t, e, roomID)
	assert.True(t, s.FirstPlayDone)
	// the joker in the set still wins the round outright
	assert.Nil(t, s.Pattern)
	assert.Equal(t, ids[0], s.Turn)

	// restriction applies only to the very first play
	require.NoError(t, e.PlayCards(roomID, ids[0], []string{"KD"}))
	assert.Equal(t, domain.King, s.Pattern.Rank)
}

func TestPassRules(t *testing.T) {
	e, roomID, ids := newRoom(t, 3)
	rigPlay(t, e, roomID, ids,
		[]string{"5S", "5H"}, []string{"6S"}, []string{"7S"})

	err := e.PassTurn(roomID, ids[0])
	assert.Equal(t, KindActionNotAllowed, KindOf(err), "no passing on an open pile")

	require.NoError(t, e.PlayCards(roomID, ids[0], []string{"5S"}))
	err = e.PassTurn(roomID, ids[2])
	assert.Equal(t, KindNotYourTurn, KindOf(err))
	require.NoError(t, e.PassTurn(roomID, ids[1]))
}

func TestObligationBlocksPlayAndPass(t *testing.T) {
	e, roomID, ids := newRoom(t, 3)
	rigPlay(t, e, roomID, ids,
		[]string{"7S", "4D"}, []string{"8S"}, []string{"9S"})
	require.NoError(t, e.PlayCards(roomID, ids[0], []string{"7S"}))

	s := stateOf(t, e, roomID)
	require.NotNil(t, s.PendingGift)

	err := e.PlayCards(roomID, ids[0], []string{"4D"})
	assert.Equal(t, KindEffectPending, KindOf(err))
	err = e.PassTurn(roomID, ids[0])
	assert.Equal(t, KindEffectPending, KindOf(err))
}

func TestAllJokerResolution(t *testing.T) {
	e, roomID, ids := newRoom(t, 3)
	rigPlay(t, e, roomID, ids,
		[]string{"9S"}, []string{"JOKERa", "4D"}, []string{"KS"})
	require.NoError(t, e.PlayCards(roomID, ids[0], []string{"9S"}))
	require.NoError(t, e.PlayCards(roomID, ids[1], []string{"JOKERa"}))

	s := stateOf(t, e, roomID)
	// the joker beat the 9 as a 10 and swept the round
	require.Len(t, s.CompletedRounds, 1)
	plays := s.CompletedRounds[0].Plays
	assert.Equal(t, domain.Ten, plays[len(plays)-1].Rank)
	assert.Equal(t, endAutoWin, s.CompletedRounds[0].EndedBy)
	assert.Equal(t, ids[1], s.Turn)
}

func TestJackWindowRestrictsFollowUps(t *testing.T) {
	e, roomID, ids := newRoom(t, 3)
	rigPlay(t, e, roomID, ids,
		[]string{"JS", "3D"}, []string{"QD", "10H", "4C"}, []string{"KS"})
	require.NoError(t, e.PlayCards(roomID, ids[0], []string{"JS"}))

	s := stateOf(t, e, roomID)
	assert.True(t, s.Inversion)

	// under inversion a Queen is both weaker than the Jack and outside
	// the 3..10 window
	err := e.PlayCards(roomID, ids[1], []string{"QD"})
	assert.Equal(t, KindRankTooLow, KindOf(err))

	require.NoError(t, e.PlayCards(roomID, ids[1], []string{"10H"}))
	assert.Equal(t, domain.Ten, s.Pattern.Rank)
	require.NotNil(t, s.PendingDiscard, "the 10 keeps its effect under inversion")
}

func TestInversionLastsForTheRound(t *testing.T) {
	e, roomID, ids := newRoom(t, 3)
	rigPlay(t, e, roomID, ids,
		[]string{"JS", "3D"}, []string{"10H", "4C"}, []string{"9S", "KS"})
	require.NoError(t, e.PlayCards(roomID, ids[0], []string{"JS"}))
	require.NoError(t, e.PlayCards(roomID, ids[1], []string{"10H"}))
	require.NoError(t, e.SubmitDiscard(roomID, ids[1], []string{"4C"}))

	s := stateOf(t, e, roomID)
	// past the Jack window the ordering is still inverted: 9 beats 10
	require.NoError(t, e.PlayCards(roomID, ids[2], []string{"9S"}))
	assert.True(t, s.Inversion)

	// round ends once everyone else passes; inversion resets with it
	require.NoError(t, e.PassTurn(roomID, s.Turn))
	assert.False(t, s.Inversion)
	assert.Nil(t, s.Pattern)
}
