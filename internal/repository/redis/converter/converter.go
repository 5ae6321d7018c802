package converter

import "github.com/DRSN-tech/inventory-backend/internal/usecase"

type IdempotentResponseConverter interface {
	ToRedisModel(entity *usecase.IdempotentResponse) *IdempotentResponseRedisModel
	ToUseCase(model *IdempotentResponseRedisModel) *usecase.IdempotentResponse
}

type IdempotentResponseConverterImpl struct{}

func NewIdempotentResponseConverterImpl() *IdempotentResponseConverterImpl {
	return &IdempotentResponseConverterImpl{}
}

func (IdempotentResponseConverterImpl) ToRedisModel(entity *usecase.IdempotentResponse) *IdempotentResponseRedisModel {
	if entity == nil {
		return nil
	}

	return &IdempotentResponseRedisModel{
		StatusCode:  entity.StatusCode,
		ContentType: entity.ContentType,
		Body:        entity.Body,
	}
}

func (IdempotentResponseConverterImpl) ToUseCase(model *IdempotentResponseRedisModel) *usecase.IdempotentResponse {
	if model == nil {
		return nil
	}

	return &usecase.IdempotentResponse{
		StatusCode:  model.StatusCode,
		ContentType: model.ContentType,
		Body:        model.Body,
	}
}
