// Package progress implements the learner progression rules: level and
// section unlocking, stars and XP per game type, consecutive-day streaks, and
// the daily quest set.
//
// Everything here is pure. Callers pass the current time and the learner's
// location; persistence lives in the store package. A perfect round completes
// a level and opens the next one, crossing into the next section after the
// last level. Quests are redrawn at local midnight and pay their reward once.
package progress
