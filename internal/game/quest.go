package game

// Rule constants shared by the vote and quest resolvers.
const (
	QuestsToWin    = 3
	MaxFailedVotes = 5
)

// questSizes maps player count to the required team size per quest.
var questSizes = map[int][]int{
	5:  {2, 3, 2, 3, 3},
	6:  {2, 3, 4, 3, 4},
	7:  {2, 3, 3, 4, 4},
	8:  {3, 4, 4, 5, 5},
	9:  {3, 4, 4, 5, 5},
	10: {3, 4, 4, 5, 5},
}

// QuestConfigFor returns the per-quest team sizes for a player count.
// The slice is a copy; callers may keep it on the room.
func QuestConfigFor(count int) ([]int, error) {
	sizes, ok := questSizes[count]
	if !ok {
		return nil, ErrUnsupportedCount
	}
	out := make([]int, len(sizes))
	copy(out, sizes)
	return out, nil
}

// VoteDetail records one player's vote for the public tally.
type VoteDetail struct {
	Name     string
	Approved bool
}

// VoteOutcome is the result of a completed voting round.
type VoteOutcome struct {
	Passed     bool
	Approvals  int
	Rejections int
	Detail     []VoteDetail
}

// TallyVotes resolves a completed voting round. A proposal passes only on a
// strict majority of approvals; a tie is a rejection. Detail follows seat
// order so clients render votes in rotation order.
func TallyVotes(players []*Player, votes map[string]bool) VoteOutcome {
	out := VoteOutcome{Detail: make([]VoteDetail, 0, len(players))}
	for _, p := range players {
		approved := votes[p.ID]
		if approved {
			out.Approvals++
		}
		out.Detail = append(out.Detail, VoteDetail{Name: p.Name, Approved: approved})
	}
	out.Rejections = len(players) - out.Approvals
	out.Passed = out.Approvals > out.Rejections
	return out
}

// ResolveQuest resolves a completed quest. A single adverse move fails the
// mission regardless of team size; there is no two-fails rule here.
func ResolveQuest(moves map[string]bool) (success bool, failCount int) {
	for _, m := range moves {
		if !m {
			failCount++
		}
	}
	return failCount == 0, failCount
}
