package seoscribe

import (
	"github.com/kailas-cloud/seoscribe/internal/domain/article"
	domsession "github.com/kailas-cloud/seoscribe/internal/domain/session"
	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
	quotauc "github.com/kailas-cloud/seoscribe/internal/usecase/quota"
)

func fromInternalSession(s domsession.Session) Session {
	return Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
	}
}

func toInternalSession(s Session) domsession.Session {
	return domsession.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
	}
}

func fromInternalStatus(st quotauc.Status) QuotaStatus {
	return QuotaStatus{
		State:            QuotaState(st.State),
		Plan:             Plan(st.Plan),
		Email:            st.Email,
		Date:             st.Date.Time,
		GenerationsToday: st.Usage.Today.Generations,
		GenerationsMonth: st.Usage.Month.Generations,
		ToolsToday:       st.Usage.Today.Tools,
		DayLimit:         st.DayLimit,
		MonthLimit:       st.MonthLimit,
		DayRemaining:     st.DayRemaining,
		MonthRemaining:   st.MonthRemaining,
		CanGenerate:      st.CanGenerate,
		ToolLimit:        st.ToolLimit,
		ToolRemaining:    st.ToolRemaining,
		CanUseTool:       st.CanUseTool,
		MaxExpansions:    st.MaxExpansions,
	}
}

func fromInternalArticle(a article.Article) Article {
	return Article{
		ID:                 a.ID,
		Title:              a.Title,
		WordCount:          a.WordCount,
		ReadingTimeMinutes: a.ReadingTimeMinutes,
		ExpansionCount:     a.ExpansionCount,
		Status:             a.Status,
		Data:               a.Data,
	}
}

func fromInternalArticles(list []article.Article) []Article {
	out := make([]Article, len(list))
	for i, a := range list {
		out[i] = fromInternalArticle(a)
	}
	return out
}

func toInternalArticle(a Article) article.Article {
	return article.Article{
		ID:                 a.ID,
		Title:              a.Title,
		WordCount:          a.WordCount,
		ReadingTimeMinutes: a.ReadingTimeMinutes,
		ExpansionCount:     a.ExpansionCount,
		Status:             a.Status,
		Data:               a.Data,
	}
}

func toInternalDraft(r DraftRequest) backend.DraftRequest {
	return backend.DraftRequest{
		Topic:           r.Topic,
		TargetWordCount: r.TargetWordCount,
		GenerateSocial:  r.GenerateSocial,
		Region:          r.Region,
		Save:            r.Save,
		WebsiteURL:      r.WebsiteURL,
		Tone:            r.Tone,
	}
}

func fromInternalTemplates(list []backend.Template) []Template {
	out := make([]Template, len(list))
	for i, t := range list {
		out[i] = Template{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Category:    t.Category,
		}
	}
	return out
}
