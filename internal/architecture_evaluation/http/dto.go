package http

import "github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"

type createComponentReq struct {
	Name       string                 `json:"name"`
	Type       string                 `json:"type"`
	Subtype    string                 `json:"subtype"`
	Properties domain.Properties      `json:"properties"`
	Heuristics map[string]float64     `json:"heuristics"`
	Position   *domain.CanvasPosition `json:"position"`
}

type updateComponentReq struct {
	Name       *string                `json:"name"`
	Subtype    *string                `json:"subtype"`
	Properties domain.Properties      `json:"properties"`
	Heuristics map[string]float64     `json:"heuristics"`
	Position   *domain.CanvasPosition `json:"position"`
}

type linkReq struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Type     string `json:"type"`
}

type heuristicsReq struct {
	Heuristics map[string]float64 `json:"heuristics"`
}

type nameReq struct {
	Name string `json:"name"`
}

type attachReq struct {
	ID string `json:"id"`
}

type evaluateReq struct {
	ArchitectureID string `json:"architecture_id"`
}

type compareReq struct {
	ArchitectureAID string `json:"architecture_a_id"`
	ArchitectureBID string `json:"architecture_b_id"`
}

type submitReq struct {
	UserID     string `json:"user_id"`
	QuestionID string `json:"question_id"`
}

func profileOf(in map[string]float64) (domain.HeuristicProfile, error) {
	if in == nil {
		return nil, nil
	}
	h := make(domain.HeuristicProfile, len(in))
	for k, v := range in {
		p, ok := domain.ParseParameter(k)
		if !ok {
			return nil, domain.ErrInvalidProfile
		}
		h[p] = v
	}
	return h, h.Validate()
}
