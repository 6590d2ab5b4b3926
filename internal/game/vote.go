package game

// CastVote records the caller's vote, replacing any earlier one. Voting for
// oneself is allowed.
func (e *Engine) CastVote(sess *Session, targetID string) error {
	room, err := e.roomFor(sess)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if err := room.RecordVote(sess.UserID(), targetID); err != nil {
		return err
	}
	e.log.Debug().Str("room", room.Id).Str("player", sess.UserID()).Str("target", targetID).
		Msg("[CastVote] vote recorded")
	return nil
}
