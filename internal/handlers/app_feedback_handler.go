package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meetsy/feedback-service/internal/dto"
	"github.com/meetsy/feedback-service/internal/pagination"
	"github.com/meetsy/feedback-service/internal/services"
)

type AppFeedbackHandler struct {
	service *services.AppFeedbackService
}

func NewAppFeedbackHandler(service *services.AppFeedbackService) *AppFeedbackHandler {
	return &AppFeedbackHandler{service: service}
}

func (h *AppFeedbackHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAppFeedbackRequest
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
	return c.Status(fiber.StatusCreated).JSON(dto.NewAppFeedbackResponse(rec))
}

func (h *AppFeedbackHandler) GetByID(c *fiber.Ctx) error {
	id, err := parsePathID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	rec, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}

	etag := makeETag(rec.ID, rec.UpdatedAt)
	c.Set(fiber.HeaderETag, etag)
	if inm := c.Get(fiber.HeaderIfNoneMatch); inm != "" && etagMatches(inm, etag) {
		return c.SendStatus(fiber.StatusNotModified)
	}
	return c.JSON(dto.NewAppFeedbackResponse(rec))
}

func (h *AppFeedbackHandler) Update(c *fiber.Ctx) error {
	id, err := parsePathID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.UpdateAppFeedbackRequest
	if err := decodeBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	existing, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	if im := c.Get(fiber.HeaderIfMatch); im != "" {
		if !etagMatches(im, makeETag(existing.ID, existing.UpdatedAt)) {
			return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{
				"error":   true,
				"message": "If-Match precondition failed",
			})
		}
	}

	rec, err := h.service.Patch(id, &req)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderETag, makeETag(rec.ID, rec.UpdatedAt))
	return c.JSON(dto.NewAppFeedbackResponse(rec))
}

func (h *AppFeedbackHandler) Delete(c *fiber.Ctx) error {
	id, err := parsePathID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AppFeedbackHandler) List(c *fiber.Ctx) error {
	sort, order, err := querySort(c, "created_at", "overall")
	if err != nil {
		return badRequest(c, err.Error())
	}

	filter, err := h.parseFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		return badRequest(c, "invalid offset")
	}

	opts := services.ListOptions{
		Filter: filter,
		Sort:   sort,
		Order:  order,
		Limit:  c.QueryInt("limit", pagination.DefaultLimit),
		Offset: offset,
	}
	// An explicit cursor supersedes offset paging.
	cursorMode := false
	if token := c.Query("cursor"); token != "" {
		cur, err := pagination.Decode(token, sort, order)
		if err != nil {
			return respondError(c, err)
		}
		opts.Cursor = &cur
		opts.Offset = 0
		cursorMode = true
	}

	rows, total, next, err := h.service.List(opts)
	if err != nil {
		return respondError(c, err)
	}

	items := make([]dto.AppFeedbackResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.NewAppFeedbackResponse(&rows[i]))
	}

	limit := pagination.ClampLimit(opts.Limit)
	meta := dto.PaginationMeta{
		Limit:      limit,
		Offset:     opts.Offset,
		Count:      len(items),
		Total:      total,
		NextCursor: next,
	}

	query := requestQuery(c)
	var links map[string]string
	if cursorMode {
		meta.HasNext = next != nil
		links = dto.CollectionLinks(c.Path(), query, next, nil, nil, nil)
	} else {
		meta.HasNext = int64(opts.Offset+len(items)) < total
		meta.HasPrevious = opts.Offset > 0
		if meta.HasNext {
			n := opts.Offset + limit
			meta.NextOffset = &n
		}
		if meta.HasPrevious {
			p := opts.Offset - limit
			if p < 0 {
				p = 0
			}
			meta.PreviousOffset = &p
		}
		links = dto.CollectionLinks(c.Path(), query, nil, nil, meta.NextOffset, meta.PreviousOffset)
	}

	return c.JSON(dto.AppFeedbackListResponse{
		Items:      items,
		NextCursor: next,
		Count:      len(items),
		Pagination: meta,
		Links:      links,
	})
}

func (h *AppFeedbackHandler) Stats(c *fiber.Ctx) error {
	since, err := queryTime(c, "since")
	if err != nil {
		return badRequest(c, err.Error())
	}
	tags := services.ParseTags(c.Query("tags"))

	stats, err := h.service.Stats(tags, since)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.AppFeedbackStatsResponse{
		CountTotal:    stats.Total,
		AvgOverall:    stats.AvgOverall,
		Distribution:  stats.Distribution,
		FacetAverages: stats.FacetAverages,
		TopTags:       stats.TopTags,
		Links:         dto.StatsLinks(c.Path(), requestQuery(c), "/feedback/app"),
	})
}

func (h *AppFeedbackHandler) parseFilter(c *fiber.Ctx) (services.ListFilter, error) {
	var filter services.ListFilter
	var err error

	if filter.AuthorProfileID, err = queryUUID(c, "author_profile_id"); err != nil {
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
