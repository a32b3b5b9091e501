package handler

import (
	"errors"
	"strconv"

	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetQuestionsHandler(c *gin.Context, catalogRepo *repository.CatalogRepo) {
	filter := repository.QuestionFilter{
		PersonaID:  c.Query("persona_id"),
		Difficulty: c.Query("difficulty"),
		Category:   c.Query("category"),
	}

	questions, err := catalogRepo.GetQuestions(c.Request.Context(), filter)
	if err != nil {
		utils.InternalError(c, "Failed to fetch questions")
		return
	}

	utils.Success(c, gin.H{
		"questions": questions,
		"count":     len(questions),
	})
}

func GetPersonasHandler(c *gin.Context, catalogRepo *repository.CatalogRepo) {
	personas, err := catalogRepo.GetPersonas(c.Request.Context())
	if err != nil {
		utils.InternalError(c, "Failed to fetch personas")
		return
	}

	utils.Success(c, gin.H{
		"personas": personas,
		"count":    len(personas),
	})
}

func GetPersonaHandler(c *gin.Context, catalogRepo *repository.CatalogRepo) {
	persona, err := catalogRepo.GetPersonaByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCatalogEntryNotFound) {
			utils.NotFound(c, "Persona not found")
			return
		}
		utils.InternalError(c, "Failed to fetch persona")
		return
	}

	utils.Success(c, persona)
}

func GetCategoriesHandler(c *gin.Context, catalogRepo *repository.CatalogRepo) {
	categories, err := catalogRepo.GetCategories(c.Request.Context())
	if err != nil {
		utils.InternalError(c, "Failed to fetch categories")
		return
	}

	utils.Success(c, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetModelAnswerHandler returns the generated reference answer for a
// single question.
func GetModelAnswerHandler(c *gin.Context, catalogRepo *repository.CatalogRepo) {
	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid question ID")
		return
	}

	question, err := catalogRepo.GetQuestionByID(c.Request.Context(), questionID)
	if err != nil {
		if errors.Is(err, repository.ErrCatalogEntryNotFound) {
			utils.NotFound(c, "Question not found")
			return
		}
		utils.InternalError(c, "Failed to fetch question")
		return
	}

	utils.Success(c, usecase.GenerateModelAnswer(question))
}
