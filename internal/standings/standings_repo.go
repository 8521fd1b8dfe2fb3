package standings

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMissingRow = errors.New("standing row does not exist")

type Repository interface {
	// EnsureRow inserts a zeroed row for the team unless one exists.
	EnsureRow(teamID uint) error
	// ApplyMatchOutcome adds one match to the team's row as relative deltas.
	ApplyMatchOutcome(teamID uint, goalsFor, goalsAgainst int) error
	// RevertMatchOutcome subtracts a match previously applied with the same arguments.
	RevertMatchOutcome(teamID uint, goalsFor, goalsAgainst int) error
	// DeleteIfEmpty removes the team's row once it counts no matches.
	DeleteIfEmpty(teamID uint) error
	DeleteAll() error
	DeleteForTeam(teamID uint) error
	Ranked() ([]StandingRow, error)
	GetByTeamID(teamID uint) (*StandingRow, error)
	// ApprovedOutcomes lists every approved result in creation order. Results
	// without both scores are counted in skipped.
	ApprovedOutcomes() (outcomes []Outcome, skipped int, err error)
	WithTransaction(txFunc func(Repository) error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) EnsureRow(teamID uint) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}},
		DoNothing: true,
	}).Create(&StandingRow{TeamID: teamID}).Error
}

func (r *repository) ApplyMatchOutcome(teamID uint, goalsFor, goalsAgainst int) error {
	return r.shift(teamID, 1, goalsFor, goalsAgainst)
}

func (r *repository) RevertMatchOutcome(teamID uint, goalsFor, goalsAgainst int) error {
	return r.shift(teamID, -1, goalsFor, goalsAgainst)
}

// shift moves a row by one match in the direction of sign. Every column is
// updated relative to its stored value so concurrent shifts never lose writes.
func (r *repository) shift(teamID uint, sign, goalsFor, goalsAgainst int) error {
	t := tallyFor(goalsFor, goalsAgainst)
	query := r.db.Model(&StandingRow{}).Where("team_id = ?", teamID)
	if sign < 0 {
		query = query.Where("played > 0")
	}
	result := query.Updates(map[string]interface{}{
		"played":          gorm.Expr("played + ?", sign),
		"wins":            gorm.Expr("wins + ?", sign*t.win),
		"draws":           gorm.Expr("draws + ?", sign*t.draw),
		"losses":          gorm.Expr("losses + ?", sign*t.loss),
		"points":          gorm.Expr("points + ?", sign*t.points),
		"goals_for":       gorm.Expr("goals_for + ?", sign*goalsFor),
		"goals_against":   gorm.Expr("goals_against + ?", sign*goalsAgainst),
		"goal_difference": gorm.Expr("goals_for - goals_against + ?", sign*(goalsFor-goalsAgainst)),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMissingRow
	}
	return nil
}

func (r *repository) DeleteIfEmpty(teamID uint) error {
	return r.db.Where("team_id = ? AND played = 0", teamID).Delete(&StandingRow{}).Error
}

func (r *repository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&StandingRow{}).Error
}

func (r *repository) DeleteForTeam(teamID uint) error {
	return r.db.Where("team_id = ?", teamID).Delete(&StandingRow{}).Error
}

func (r *repository) rowsWithTeam() *gorm.DB {
	return r.db.Model(&StandingRow{}).
		Select("standing_rows.*, teams.name AS team_name").
		Joins("LEFT JOIN teams ON teams.id = standing_rows.team_id")
}

// Ranked orders by points, then goal difference, then goals scored. Rows
// equal on all three come back in no particular order.
func (r *repository) Ranked() ([]StandingRow, error) {
	var rows []StandingRow
	err := r.rowsWithTeam().
		Order("standing_rows.points DESC, standing_rows.goal_difference DESC, standing_rows.goals_for DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) GetByTeamID(teamID uint) (*StandingRow, error) {
	var row StandingRow
	if err := r.rowsWithTeam().Where("standing_rows.team_id = ?", teamID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *repository) ApprovedOutcomes() ([]Outcome, int, error) {
	var rows []struct {
		HomeTeamID uint
		AwayTeamID uint
		HomeScore  *int
		AwayScore  *int
	}
	err := r.db.Table("results").
		Select("matches.home_team_id, matches.away_team_id, results.home_score, results.away_score").
		Joins("JOIN matches ON matches.id = results.match_id").
		Where("results.approved = ?", true).
		Order("results.created_at ASC, results.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	outcomes := make([]Outcome, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if row.HomeScore == nil || row.AwayScore == nil {
			skipped++
			continue
		}
		outcomes = append(outcomes, Outcome{
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
			HomeGoals:  *row.HomeScore,
			AwayGoals:  *row.AwayScore,
		})
	}
	return outcomes, skipped, nil
}

func (r *repository) WithTransaction(txFunc func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&repository{db: tx})
	})
}
