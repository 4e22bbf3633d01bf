// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package game

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// AssigneeAll is the sentinel assignee for quests every player contributes to.
const AssigneeAll = "all"

// Quest is a writing goal with coin and XP rewards.
//
// Progress only ever increases and IsComplete is monotonic: once true it
// never reverts.
type Quest struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	RewardCoins     int            `json:"rewardCoins"`
	RewardXP        int            `json:"rewardXp"`
	TargetWordCount int            `json:"targetWordCount,omitempty"`
	AssigneeID      string         `json:"assigneeId"`
	Progress        map[string]int `json:"progress"`
	IsComplete      bool           `json:"isComplete"`
}

// AppliesTo reports whether the player contributes progress to this quest.
func (q *Quest) AppliesTo(playerID string) bool {
	return q.AssigneeID == AssigneeAll || q.AssigneeID == playerID
}

// clone returns a deep copy of the quest.
func (q *Quest) clone() Quest {
	cp := *q
	cp.Progress = make(map[string]int, len(q.Progress))
	for k, v := range q.Progress {
		cp.Progress[k] = v
	}
	return cp
}

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewID generates a host-allocated ULID. Quest and session ids come from the
// authoritative host only, so ids never collide across peers.
func NewID() string {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewQuest builds an unstarted quest with a host-allocated id.
func NewQuest(title, description string, rewardCoins, rewardXP, targetWordCount int, assigneeID string) Quest {
	if assigneeID == "" {
		assigneeID = AssigneeAll
	}
	return Quest{
		ID:              NewID(),
		Title:           title,
		Description:     description,
		RewardCoins:     rewardCoins,
		RewardXP:        rewardXP,
		TargetWordCount: targetWordCount,
		AssigneeID:      assigneeID,
		Progress:        make(map[string]int),
	}
}
