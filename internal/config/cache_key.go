package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// EvaluationLockKey returns the key guarding the single outstanding evaluation
// of one question in one interview.
func (r *CacheKeyStruct) EvaluationLockKey(userID, interviewID, questionID string) string {
	return fmt.Sprintf("user:%s:interview:%s:question:%s:evaluating", userID, interviewID, questionID)
}

// InterviewEventsChannel returns the Redis PubSub channel for a user's interview events
func (r *CacheKeyStruct) InterviewEventsChannel(userID string) string {
	return fmt.Sprintf("user:%s:interview:events", userID)
}

var CacheKey = NewCacheKeyStruct()
