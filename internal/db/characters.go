package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flyagain/server/internal/model"
)

// CharacterRepository reads and writes character rows plus their
// learned skills.
type CharacterRepository struct {
	db *pgxpool.Pool
}

func NewCharacterRepository(pool *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: pool}
}

const characterColumns = `id, account_id, name, class_id, level, xp, hp, mp, max_hp, max_mp,
	strength, stamina, dexterity, intellect, stat_points,
	map_id, pos_x, pos_y, pos_z, gold, play_time, created_at`

func scanCharacter(scan func(dest ...any) error) (*model.Character, error) {
	var c model.Character
	err := scan(
		&c.ID, &c.AccountID, &c.Name, &c.ClassID, &c.Level, &c.XP,
		&c.HP, &c.MP, &c.MaxHP, &c.MaxMP,
		&c.Strength, &c.Stamina, &c.Dexterity, &c.Intellect, &c.StatPoints,
		&c.MapID, &c.Pos.X, &c.Pos.Y, &c.Pos.Z, &c.Gold, &c.PlayTime, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadByID returns nil, nil when the character does not exist.
func (r *CharacterRepository) LoadByID(ctx context.Context, characterID int64) (*model.Character, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, characterID)
	c, err := scanCharacter(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying character %d: %w", characterID, err)
	}
	return c, nil
}

// LoadByAccount returns the account's characters in creation order.
func (r *CharacterRepository) LoadByAccount(ctx context.Context, accountID int64) ([]*model.Character, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+characterColumns+` FROM characters
		 WHERE account_id = $1 ORDER BY created_at ASC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying characters for account %d: %w", accountID, err)
	}
	defer rows.Close()

	chars := make([]*model.Character, 0, model.MaxCharactersPerAccount)
	for rows.Next() {
		c, err := scanCharacter(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating character rows: %w", err)
	}
	return chars, nil
}

// Create inserts the character and its starter kit (class weapon,
// shirt, a few potions, the level-1 class skill) in one transaction.
// The seed data keys the starter weapon and skill by class id.
// Enforces the per-account character cap and the unique name rule.
func (r *CharacterRepository) Create(ctx context.Context, c *model.Character) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning character create: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM characters WHERE account_id = $1`, c.AccountID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("counting characters for account %d: %w", c.AccountID, err)
	}
	if count >= model.MaxCharactersPerAccount {
		return fmt.Errorf("account %d: %w", c.AccountID, ErrCharacterLimit)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO characters (
			account_id, name, class_id, level, xp, hp, mp, max_hp, max_mp,
			strength, stamina, dexterity, intellect, stat_points,
			map_id, pos_x, pos_y, pos_z, gold, play_time
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 RETURNING id, created_at`,
		c.AccountID, c.Name, c.ClassID, c.Level, c.XP, c.HP, c.MP, c.MaxHP, c.MaxMP,
		c.Strength, c.Stamina, c.Dexterity, c.Intellect, c.StatPoints,
		c.MapID, c.Pos.X, c.Pos.Y, c.Pos.Z, c.Gold, c.PlayTime,
	).Scan(&c.ID, &c.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("character name %q: %w", c.Name, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("creating character %q: %w", c.Name, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO inventory (character_id, item_id, slot, quantity, equip_slot) VALUES
		 ($1, $2, 0, 1, 1),
		 ($1, 5,  0, 1, 3),
		 ($1, 6,  0, 5, 0)`,
		c.ID, int32(c.ClassID),
	)
	if err != nil {
		return fmt.Errorf("granting starter items for character %d: %w", c.ID, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO character_skills (character_id, skill_id, level) VALUES ($1, $2, 1)`,
		c.ID, int32(c.ClassID),
	)
	if err != nil {
		return fmt.Errorf("granting starter skill for character %d: %w", c.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing character create: %w", err)
	}
	return nil
}

// Save writes the full persistent snapshot of a character.
func (r *CharacterRepository) Save(ctx context.Context, c *model.Character) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE characters
		 SET level = $2, xp = $3, hp = $4, mp = $5, max_hp = $6, max_mp = $7,
		     strength = $8, stamina = $9, dexterity = $10, intellect = $11,
		     stat_points = $12, map_id = $13, pos_x = $14, pos_y = $15, pos_z = $16,
		     gold = $17, play_time = $18
		 WHERE id = $1`,
		c.ID, c.Level, c.XP, c.HP, c.MP, c.MaxHP, c.MaxMP,
		c.Strength, c.Stamina, c.Dexterity, c.Intellect,
		c.StatPoints, c.MapID, c.Pos.X, c.Pos.Y, c.Pos.Z,
		c.Gold, c.PlayTime,
	)
	if err != nil {
		return fmt.Errorf("saving character %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("character %d: %w", c.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a character owned by the given account. Inventory and
// skills go with it via cascading foreign keys.
func (r *CharacterRepository) Delete(ctx context.Context, characterID, accountID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM characters WHERE id = $1 AND account_id = $2`,
		characterID, accountID)
	if err != nil {
		return fmt.Errorf("deleting character %d: %w", characterID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("character %d for account %d: %w", characterID, accountID, ErrNotFound)
	}
	return nil
}

// LoadSkills returns the character's learned skills.
func (r *CharacterRepository) LoadSkills(ctx context.Context, characterID int64) ([]model.CharacterSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT character_id, skill_id, level FROM character_skills
		 WHERE character_id = $1 ORDER BY skill_id`, characterID)
	if err != nil {
		return nil, fmt.Errorf("querying skills for character %d: %w", characterID, err)
	}
	defer rows.Close()

	var skills []model.CharacterSkill
	for rows.Next() {
		var s model.CharacterSkill
		if err := rows.Scan(&s.CharacterID, &s.SkillID, &s.Level); err != nil {
			return nil, fmt.Errorf("scanning skill row: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skill rows: %w", err)
	}
	return skills, nil
}
