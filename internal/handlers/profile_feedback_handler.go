package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meetsy/feedback-service/internal/dto"
	"github.com/meetsy/feedback-service/internal/pagination"
	"github.com/meetsy/feedback-service/internal/services"
)

type ProfileFeedbackHandler struct {
	service *services.ProfileFeedbackService
}

func NewProfileFeedbackHandler(service *services.ProfileFeedbackService) *ProfileFeedbackHandler {
	return &ProfileFeedbackHandler{service: service}
}

func (h *ProfileFeedbackHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProfileFeedbackRequest
	if err := decodeBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	rec, err := h.service.Create(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewProfileFeedbackResponse(rec))
}

func (h *ProfileFeedbackHandler) GetByID(c *fiber.Ctx) error {
	id, err := parsePathID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	rec, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewProfileFeedbackResponse(rec))
}

func (h *ProfileFeedbackHandler) Update(c *fiber.Ctx) error {
	id, err := parsePathID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.UpdateProfileFeedbackRequest
	if err := decodeBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	rec, err := h.service.Patch(id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewProfileFeedbackResponse(rec))
}

func (h *ProfileFeedbackHandler) Delete(c *fiber.Ctx) error {
	id, err := parsePathID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProfileFeedbackHandler) List(c *fiber.Ctx) error {
	sort, order, err := querySort(c, "created_at", "overall_experience")
	if err != nil {
		return badRequest(c, err.Error())
	}

	filter, err := h.parseFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	opts := services.ListOptions{
		Filter: filter,
		Sort:   sort,
		Order:  order,
		Limit:  c.QueryInt("limit", pagination.DefaultLimit),
	}
	if token := c.Query("cursor"); token != "" {
		cur, err := pagination.Decode(token, sort, order)
		if err != nil {
			return respondError(c, err)
		}
		opts.Cursor = &cur
	}

	rows, next, err := h.service.List(opts)
	if err != nil {
		return respondError(c, err)
	}

	items := make([]dto.ProfileFeedbackResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.NewProfileFeedbackResponse(&rows[i]))
	}

	return c.JSON(dto.ProfileFeedbackListResponse{
		Items:      items,
		NextCursor: next,
		Count:      len(items),
		Links:      dto.CollectionLinks(c.Path(), requestQuery(c), next, nil, nil, nil),
	})
}

func (h *ProfileFeedbackHandler) Stats(c *fiber.Ctx) error {
	revieweeID, err := queryUUID(c, "reviewee_profile_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if revieweeID == nil {
		return respondError(c, &dto.ValidationError{
			Field:   "reviewee_profile_id",
			Message: "is required",
		})
	}
	since, err := queryTime(c, "since")
	if err != nil {
		return badRequest(c, err.Error())
	}
	tags := services.ParseTags(c.Query("tags"))

	stats, err := h.service.Stats(*revieweeID, tags, since)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.ProfileFeedbackStatsResponse{
		RevieweeProfileID: *revieweeID,
		CountTotal:        stats.Total,
		AvgOverall:        stats.AvgOverall,
		Distribution:      stats.Distribution,
		FacetAverages:     stats.FacetAverages,
		TopTags:           stats.TopTags,
		Links:             dto.StatsLinks(c.Path(), requestQuery(c), "/feedback/profile"),
	})
}

func (h *ProfileFeedbackHandler) parseFilter(c *fiber.Ctx) (services.ListFilter, error) {
	var filter services.ListFilter
	var err error

	if filter.RevieweeProfileID, err = queryUUID(c, "reviewee_profile_id"); err != nil {
		return filter, err
	}
	if filter.ReviewerProfileID, err = queryUUID(c, "reviewer_profile_id"); err != nil {
		return filter, err
	}
	if filter.MatchID, err = queryUUID(c, "match_id"); err != nil {
		return filter, err
	}
	if filter.MinOverall, err = queryRating(c, "min_overall"); err != nil {
		return filter, err
	}
	if filter.MaxOverall, err = queryRating(c, "max_overall"); err != nil {
		return filter, err
	}
	if filter.Since, err = queryTime(c, "since"); err != nil {
		return filter, err
	}
	filter.Tags = services.ParseTags(c.Query("tags"))
	filter.Search = c.Query("search")
	return filter, nil
}
