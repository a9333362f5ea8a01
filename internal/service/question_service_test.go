package service

import (
	"context"
	"testing"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userReputation(t *testing.T, svc *ReputationService, ctx context.Context, userID uint64) int64 {
	t.Helper()
	_, _, current, err := svc.History(ctx, userID, 1, 1)
	require.NoError(t, err)
	return current
}

func TestVoteQuestionCreditsAuthorOnce(t *testing.T) {
	db := newTestDB(t)
	repSvc := NewReputationService(db, nil)
	svc := NewQuestionService(db, repSvc)
	ctx := context.Background()

	author := createTestUser(t, db, "mentor-author", model.RoleMentor)
	voter := createTestUser(t, db, "mentee-voter", model.RoleMentee)

	q, err := svc.Ask(author.ID, "How to read pprof output?", "details")
	require.NoError(t, err)

	changed, err := svc.VoteQuestion(ctx, voter.ID, q.ID, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.EqualValues(t, PointsQuestionUpvoted, userReputation(t, repSvc, ctx, author.ID))

	// 同一目标重复投票不生效，也不再记分
	changed, err = svc.VoteQuestion(ctx, voter.ID, q.ID, 1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.EqualValues(t, PointsQuestionUpvoted, userReputation(t, repSvc, ctx, author.ID))

	entries, _, _, err := repSvc.History(ctx, author.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionQuestionUpvoted, entries[0].Action)
}

func TestVoteQuestionDownvote(t *testing.T) {
	db := newTestDB(t)
	repSvc := NewReputationService(db, nil)
	svc := NewQuestionService(db, repSvc)
	ctx := context.Background()

	author := createTestUser(t, db, "mentor-dn", model.RoleMentor)
	voter := createTestUser(t, db, "mentee-dn", model.RoleMentee)

	q, err := svc.Ask(author.ID, "Is global state fine?", "")
	require.NoError(t, err)

	changed, err := svc.VoteQuestion(ctx, voter.ID, q.ID, -1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.EqualValues(t, PointsQuestionDownvoted, userReputation(t, repSvc, ctx, author.ID))
}

func TestVoteValueValidation(t *testing.T) {
	db := newTestDB(t)
	repSvc := NewReputationService(db, nil)
	svc := NewQuestionService(db, repSvc)
	ctx := context.Background()

	author := createTestUser(t, db, "mentor-val", model.RoleMentor)
	voter := createTestUser(t, db, "mentee-val", model.RoleMentee)
	q, err := svc.Ask(author.ID, "title", "")
	require.NoError(t, err)

	_, err = svc.VoteQuestion(ctx, voter.ID, q.ID, 2)
	require.ErrorIs(t, err, pkg.ErrInvalidArgument)
}

func TestSelfVoteRejected(t *testing.T) {
	db := newTestDB(t)
	repSvc := NewReputationService(db, nil)
	svc := NewQuestionService(db, repSvc)
	ctx := context.Background()

	author := createTestUser(t, db, "mentor-self", model.RoleMentor)
	q, err := svc.Ask(author.ID, "Can I vote for myself?", "")
	require.NoError(t, err)

	_, err = svc.VoteQuestion(ctx, author.ID, q.ID, 1)
	require.ErrorIs(t, err, pkg.ErrInvalidArgument)
	assert.EqualValues(t, 0, ledgerCount(t, db, author.ID))
}

func TestVoteAnswerCreditsAnswerAuthor(t *testing.T) {
	db := newTestDB(t)
	repSvc := NewReputationService(db, nil)
	svc := NewQuestionService(db, repSvc)
	ctx := context.Background()

	asker := createTestUser(t, db, "mentee-asker", model.RoleMentee)
	answerer := createTestUser(t, db, "mentor-answerer", model.RoleMentor)
	voter := createTestUser(t, db, "mentee-av", model.RoleMentee)

	q, err := svc.Ask(asker.ID, "How to size worker pools?", "")
	require.NoError(t, err)
	a, err := svc.Answer(answerer.ID, q.ID, "measure first")
	require.NoError(t, err)

	changed, err := svc.VoteAnswer(ctx, voter.ID, a.ID, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.EqualValues(t, PointsAnswerUpvoted, userReputation(t, repSvc, ctx, answerer.ID))
	assert.EqualValues(t, 0, ledgerCount(t, db, asker.ID))
}

func TestAcceptAnswer(t *testing.T) {
	db := newTestDB(t)
	repSvc := NewReputationService(db, nil)
	svc := NewQuestionService(db, repSvc)
	ctx := context.Background()

	asker := createTestUser(t, db, "mentee-acc", model.RoleMentee)
	answerer := createTestUser(t, db, "mentor-acc", model.RoleMentor)

	q, err := svc.Ask(asker.ID, "How do I bound a queue?", "")
	require.NoError(t, err)
	a, err := svc.Answer(answerer.ID, q.ID, "use a buffered channel")
	require.NoError(t, err)

	// 旁人不能采纳
	_, err = svc.Accept(ctx, answerer.ID, a.ID)
	require.ErrorIs(t, err, pkg.ErrForbidden)

	changed, err := svc.Accept(ctx, asker.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.EqualValues(t, PointsAnswerAccepted, userReputation(t, repSvc, ctx, answerer.ID))

	// 重复采纳幂等，不再记分
	changed, err = svc.Accept(ctx, asker.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.EqualValues(t, 1, ledgerCount(t, db, answerer.ID))
}

func TestAskRequiresTitle(t *testing.T) {
	db := newTestDB(t)
	repSvc := NewReputationService(db, nil)
	svc := NewQuestionService(db, repSvc)
	u := createTestUser(t, db, "mentee-title", model.RoleMentee)

	_, err := svc.Ask(u.ID, "  ", "body")
	require.ErrorIs(t, err, pkg.ErrInvalidArgument)
}

func TestAnswerUnknownQuestion(t *testing.T) {
	db := newTestDB(t)
	repSvc := NewReputationService(db, nil)
	svc := NewQuestionService(db, repSvc)
	u := createTestUser(t, db, "mentor-unknown", model.RoleMentor)

	_, err := svc.Answer(u.ID, 9999, "content")
	require.ErrorIs(t, err, pkg.ErrNotFound)
}
