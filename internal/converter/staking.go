package converter

import (
	dto "staking_backend/internal/api/dto/staking"
	"staking_backend/internal/engine"
	"staking_backend/internal/model"
)

func ToStartSession(req dto.StartSessionRequest) model.StartSession {
	start := model.StartSession{
		Preset:       req.Preset,
		DecisionMode: engine.DecisionMode(req.DecisionMode),
		Config: engine.SessionConfig{
			Bankroll:       req.Bankroll,
			ProfitTarget:   req.ProfitTarget,
			StopLossAbs:    req.StopLossAbs,
			MaxRounds:      req.MaxRounds,
			TableMax:       req.TableMax,
			StartingLadder: req.StartingLadder,
		},
		RecoveryTargetPct: req.RecoveryTargetPct,
		CrossoverOffset:   req.CrossoverOffset,
	}
	if req.BridgingPolicy != nil {
		policy := engine.BridgingPolicy(*req.BridgingPolicy)
		start.BridgingPolicy = &policy
	}
	return start
}

func ToSessionResponse(session *model.StakingSession) dto.SessionResponse {
	state := session.State
	return dto.SessionResponse{
		ID:           session.ID.String(),
		Preset:       session.Preset,
		DecisionMode: string(session.DecisionMode),
		State: dto.StateResponse{
			CurrentLadder:     state.CurrentLadder,
			CurrentIndex:      state.CurrentIndex,
			PnL:               state.PnL,
			Rounds:            state.Rounds,
			TotalWagered:      state.TotalWagered,
			MaxStake:          state.MaxStake,
			PeakPnL:           state.PeakPnL,
			MaxDrawdown:       state.MaxDrawdown,
			LadderTouches:     state.LadderTouches,
			TopTouches:        state.TopTouches,
			Stopped:           state.Stopped,
			StopReason:        string(state.StopReason),
			StopLabel:         state.StopReason.Label(),
			InRecovery:        state.InRecovery,
			RecoveryTargetPnL: state.RecoveryTargetPnL,
			AwaitingDecision:  state.AwaitingDecision,
			PendingDecision:   string(state.PendingDecision),
		},
		NextStake:        state.CurrentStake(session.Strategy),
		Bankroll:         state.Bankroll(session.Config),
		LadderName:       state.LadderName(session.Strategy),
		ProfitProgress:   engine.ProfitProgress(state, session.Config),
		StopLossProgress: engine.StopLossProgress(state, session.Config),
	}
}

func ToBetResponse(outcome *model.BetOutcome) dto.BetResponse {
	resp := dto.BetResponse{
		Settled: outcome.Settled,
		Session: ToSessionResponse(outcome.Session),
	}
	if outcome.Settled {
		rec := toBetRecord(outcome.Record)
		resp.Record = &rec
	}
	return resp
}

func ToHistoryResponse(records []engine.BetRecord) dto.HistoryResponse {
	return dto.HistoryResponse{Bets: toBetRecords(records)}
}

func ToSummaryResponse(result *engine.SessionResult) dto.SummaryResponse {
	return dto.SummaryResponse{
		HitTarget:         result.HitTarget,
		HitStopLoss:       result.HitStopLoss,
		HitMaxRounds:      result.HitMaxRounds,
		HitTableLimit:     result.HitTableLimit,
		BankrollExhausted: result.BankrollExhausted,
		UserStopped:       result.UserStopped,
		FinalPnL:          result.FinalPnL,
		RoundsPlayed:      result.RoundsPlayed,
		TotalWagered:      result.TotalWagered,
		MaxStakeSeen:      result.MaxStakeSeen,
		MaxDrawdown:       result.MaxDrawdown,
		LadderTouches:     result.LadderTouches,
		TopTouches:        result.TopTouches,
		FinalLadder:       result.FinalLadder,
		FinalIndex:        result.FinalIndex,
		History:           toBetRecords(result.History),
	}
}

func ToPresetResponses(infos []model.PresetInfo) []dto.PresetResponse {
	result := make([]dto.PresetResponse, len(infos))
	for i, info := range infos {
		result[i] = dto.PresetResponse{
			Name:              info.Name,
			BridgingPolicy:    info.BridgingPolicy,
			RecoveryTargetPct: info.RecoveryTargetPct,
			CrossoverOffset:   info.CrossoverOffset,
		}
	}
	return result
}

func ToStatsResponse(stats map[string]model.PresetStats) map[string]dto.PresetStatsResponse {
	result := make(map[string]dto.PresetStatsResponse, len(stats))
	for preset, s := range stats {
		result[preset] = dto.PresetStatsResponse{
			Sessions:          s.Sessions,
			Wins:              s.Wins,
			StopLoss:          s.StopLoss,
			MaxRounds:         s.MaxRounds,
			TableLimit:        s.TableLimit,
			BankrollExhausted: s.BankrollExhausted,
			UserStopped:       s.UserStopped,
			TotalPnL:          s.TotalPnL,
			TotalRounds:       s.TotalRounds,
			TotalWagered:      s.TotalWagered,
		}
	}
	return result
}

func toBetRecords(records []engine.BetRecord) []dto.BetRecordResponse {
	result := make([]dto.BetRecordResponse, len(records))
	for i, rec := range records {
		result[i] = toBetRecord(rec)
	}
	return result
}

func toBetRecord(rec engine.BetRecord) dto.BetRecordResponse {
	return dto.BetRecordResponse{
		Round:    rec.Round,
		Stake:    rec.Stake,
		Won:      rec.Won,
		PnLAfter: rec.PnLAfter,
		Ladder:   rec.Ladder,
		Index:    rec.Index,
	}
}
