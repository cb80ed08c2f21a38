// Package batch persists multi-file extraction runs in SQLite and drains
// them one container at a time. Terminal item states survive process
// restarts, so an interrupted run resumes without redoing finished work.
package batch
