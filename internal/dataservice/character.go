package dataservice

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/flyagain/server/internal/model"
	"github.com/flyagain/server/internal/wire"
)

// CharacterService serves flyagain.CharacterData.
type CharacterService struct {
	log        *slog.Logger
	characters characterStore
}

func (s *CharacterService) GetByAccount(ctx context.Context, req *wire.GetByIDRequest) (*wire.CharacterList, error) {
	chars, err := s.characters.LoadByAccount(ctx, req.ID)
	if err != nil {
		return nil, rpcError(s.log, "CharacterData.GetByAccount", err)
	}
	list := &wire.CharacterList{Characters: make([]wire.CharacterRecord, 0, len(chars))}
	for _, c := range chars {
		list.Characters = append(list.Characters, *wire.CharacterToRecord(c))
	}
	return list, nil
}

// Get treats an ownership mismatch the same as a missing row so callers
// cannot probe other accounts' character ids.
func (s *CharacterService) Get(ctx context.Context, req *wire.GetCharacterRequest) (*wire.CharacterRecord, error) {
	c, err := s.characters.LoadByID(ctx, req.CharacterID)
	if err != nil {
		return nil, rpcError(s.log, "CharacterData.Get", err)
	}
	if c == nil || (req.AccountID != 0 && c.AccountID != req.AccountID) {
		return nil, status.Error(codes.NotFound, "character not found")
	}
	return wire.CharacterToRecord(c), nil
}

// Create composes the level-1 snapshot here so every starting character
// is born identically no matter which gateway asked.
func (s *CharacterService) Create(ctx context.Context, req *wire.CreateCharacterRequest) (*wire.CharacterRecord, error) {
	classID := model.ClassID(req.ClassID)
	if !classID.Valid() {
		return nil, status.Error(codes.InvalidArgument, "unknown class")
	}
	if err := model.ValidateCharacterName(req.Name); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	stats := classID.StartingStats()
	c := &model.Character{
		AccountID: req.AccountID,
		Name:      req.Name,
		ClassID:   classID,
		Level:     1,
		MaxHP:     model.StartingHP(stats),
		MaxMP:     model.StartingMP(stats),
		Strength:  stats.Strength,
		Stamina:   stats.Stamina,
		Dexterity: stats.Dexterity,
		Intellect: stats.Intellect,
		MapID:     1,
		Pos:       model.TownSpawn,
	}
	c.HP = c.MaxHP
	c.MP = c.MaxMP

	if err := s.characters.Create(ctx, c); err != nil {
		return nil, rpcError(s.log, "CharacterData.Create", err)
	}
	s.log.Info("character created",
		"character", c.ID, "account", c.AccountID, "name", c.Name, "class", classID.Label())
	return wire.CharacterToRecord(c), nil
}

func (s *CharacterService) Save(ctx context.Context, req *wire.SaveCharacterRequest) (*wire.Ack, error) {
	if req.Character == nil || req.Character.ID == 0 {
		return nil, status.Error(codes.InvalidArgument, "character snapshot is required")
	}
	c := req.Character.Model()
	c.ClampVitals()
	if err := s.characters.Save(ctx, c); err != nil {
		return nil, rpcError(s.log, "CharacterData.Save", err)
	}
	return &wire.Ack{Ok: true}, nil
}

func (s *CharacterService) Delete(ctx context.Context, req *wire.DeleteCharacterRequest) (*wire.Ack, error) {
	if err := s.characters.Delete(ctx, req.CharacterID, req.AccountID); err != nil {
		return nil, rpcError(s.log, "CharacterData.Delete", err)
	}
	s.log.Info("character deleted", "character", req.CharacterID, "account", req.AccountID)
	return &wire.Ack{Ok: true}, nil
}

func (s *CharacterService) GetSkills(ctx context.Context, req *wire.GetByIDRequest) (*wire.CharacterSkillList, error) {
	skills, err := s.characters.LoadSkills(ctx, req.ID)
	if err != nil {
		return nil, rpcError(s.log, "CharacterData.GetSkills", err)
	}
	list := &wire.CharacterSkillList{Skills: make([]wire.CharacterSkillRecord, 0, len(skills))}
	for _, sk := range skills {
		list.Skills = append(list.Skills, wire.CharacterSkillRecord{SkillID: sk.SkillID, Level: sk.Level})
	}
	return list, nil
}
