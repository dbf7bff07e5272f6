package views

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/petsite/filters"
	"github.com/eringen/petsite/petdata"
)

// LightboxWidth is the width requested for the full-size lightbox image.
const LightboxWidth = 1920

// HomeData is the input of the home page.
type HomeData struct {
	Data    petdata.Data
	Now     time.Time
	Images  Images
	Content templ.Component // rendered index.md, if any
}

// Home renders the single-page pet profile.
func Home(d HomeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		hero(h, d)
		about(h, d)
		if d.Content != nil {
			h.raw(`<section class="section notes" id="notes"><div class="section__inner prose">`)
			h.component(d.Content)
			h.raw("</div></section>")
		}
		gallery(h, d)
		health(h, d)
		routine(h, d.Data.Pet.Routine)
		contact(h, d.Data.Owner)
		h.component(Lightbox())
		return h.err
	})
}

func hero(h *html, d HomeData) {
	pet := d.Data.Pet
	h.raw(`<section class="hero" id="top"><div class="hero__inner">`)
	if pet.HeroImage != "" {
		h.raw(`<div class="hero__image-wrapper"`)
		h.attr("data-lightbox", d.Images.URL(h.ctx, pet.HeroImage, LightboxWidth, ""))
		h.attr("data-alt", pet.HeroAlt)
		h.raw(">")
		h.component(d.Images.Picture(pet.HeroImage, pet.HeroAlt, "hero__image", "eager"))
		h.raw("</div>")
	}
	h.raw(`<div class="hero__content">`)
	h.elem("h1", "hero__title", pet.Name)
	if pet.Nickname != "" {
		h.elem("p", "hero__nickname", pet.Nickname)
	}
	if pet.DOB != "" {
		h.raw(`<p class="hero__age"`)
		h.attr("data-dob", filters.ToISO(pet.DOB))
		h.raw(">")
		h.text(filters.CalculateAge(pet.DOB, d.Now))
		h.raw("</p>")
	}
	h.raw("</div></div></section>")
}

func about(h *html, d HomeData) {
	pet := d.Data.Pet
	h.raw(`<section class="section about" id="about"><div class="section__inner">`)
	h.elem("h2", "section__title", "About "+pet.Name)
	if pet.About != "" {
		h.elem("p", "about__text", pet.About)
	}
	h.raw(`<dl class="about__facts">`)
	fact(h, "Species", pet.Species)
	fact(h, "Breed", pet.Breed)
	fact(h, "Sex", pet.Sex)
	fact(h, "Colour", pet.Colour)
	fact(h, "Born", filters.FormatDate(pet.DOB))
	fact(h, "Microchip", pet.Microchip)
	h.raw("</dl>")
	labelledList(h, "Personality", "about__traits", pet.Traits)
	labelledList(h, "Likes", "about__likes", pet.Likes)
	labelledList(h, "Dislikes", "about__dislikes", pet.Dislikes)
	h.raw("</div></section>")
}

func fact(h *html, term, value string) {
	if value == "" {
		return
	}
	h.raw(`<div class="about__fact">`)
	h.elem("dt", "", term)
	h.elem("dd", "", value)
	h.raw("</div>")
}

func labelledList(h *html, label, class string, items []string) {
	if len(items) == 0 {
		return
	}
	h.raw("<div")
	h.attr("class", class)
	h.raw(">")
	h.elem("h3", "", label)
	h.list("tags", items)
	h.raw("</div>")
}

func gallery(h *html, d HomeData) {
	photos := d.Data.Pet.Gallery
	if len(photos) == 0 {
		return
	}
	h.raw(`<section class="section gallery" id="gallery"><div class="section__inner">`)
	h.elem("h2", "section__title", "Gallery")
	h.raw(`<div class="gallery__grid">`)
	for _, p := range photos {
		h.raw(`<figure class="gallery__item"`)
		h.attr("data-lightbox", d.Images.URL(h.ctx, p.Src, LightboxWidth, ""))
		h.attr("data-alt", p.Alt)
		h.raw(` tabindex="0">`)
		h.component(d.Images.Picture(p.Src, p.Alt, "gallery__image", "lazy"))
		h.raw("</figure>")
	}
	h.raw("</div></div></section>")
}

func health(h *html, d HomeData) {
	hd := d.Data.Health
	h.raw(`<section class="section health" id="health"><div class="section__inner">`)
	h.elem("h2", "section__title", "Health")

	if hd.Vet.Name != "" || hd.Vet.Clinic != "" {
		h.raw(`<div class="health__vet card">`)
		h.elem("h3", "", "Vet")
		if hd.Vet.Name != "" {
			h.elem("p", "health__vet-name", hd.Vet.Name)
		}
		if hd.Vet.Clinic != "" {
			h.elem("p", "health__vet-clinic", hd.Vet.Clinic)
		}
		phone(h, hd.Vet.Phone)
		email(h, hd.Vet.Email)
		if hd.Vet.Address != "" {
			h.elem("address", "", hd.Vet.Address)
		}
		h.raw("</div>")
	}

	if len(hd.Vaccinations) > 0 {
		h.elem("h3", "", "Vaccinations")
		h.raw(`<table class="health__table"><thead><tr><th>Vaccine</th><th>Given</th><th>Next due</th><th>Status</th></tr></thead><tbody>`)
		for i := range hd.Vaccinations {
			v := &hd.Vaccinations[i]
			st := filters.VaccinationStatus(v.NextDue, v, hd.Vaccinations, d.Now)
			h.raw("<tr>")
			h.elem("td", "", v.Name)
			h.elem("td", "", orDash(filters.FormatDate(v.Date)))
			h.elem("td", "", orDash(filters.FormatDate(v.NextDue)))
			h.raw("<td>")
			h.elem("span", "status status--"+st.Class, st.Label)
			h.raw("</td></tr>")
		}
		h.raw("</tbody></table>")
	}

	if len(hd.Medications) > 0 {
		h.elem("h3", "", "Medications")
		h.raw(`<ul class="health__medications">`)
		for _, m := range hd.Medications {
			h.raw("<li>")
			h.elem("strong", "", m.Name)
			if m.Dosage != "" {
				h.text(" " + m.Dosage)
			}
			if m.Frequency != "" {
				h.text(", " + m.Frequency)
			}
			if m.Notes != "" {
				h.elem("span", "health__note", m.Notes)
			}
			h.raw("</li>")
		}
		h.raw("</ul>")
	}
	labelledList(h, "Allergies", "health__allergies", hd.Allergies)
	labelledList(h, "Conditions", "health__conditions", hd.Conditions)
	if hd.Notes != "" {
		h.elem("p", "health__notes", hd.Notes)
	}
	h.raw("</div></section>")
}

func routine(h *html, r petdata.Routine) {
	if len(r) == 0 {
		return
	}
	h.raw(`<section class="section routine" id="routine"><div class="section__inner">`)
	h.elem("h2", "section__title", "Daily routine")
	h.raw(`<dl class="routine__list">`)
	for _, e := range r {
		h.raw(`<div class="routine__item">`)
		h.elem("dt", "", filters.FormatRoutineKey(e.Key))
		h.elem("dd", "", e.Value)
		h.raw("</div>")
	}
	h.raw("</dl></div></section>")
}

func contact(h *html, o petdata.Owner) {
	h.raw(`<section class="section contact" id="contact"><div class="section__inner">`)
	h.elem("h2", "section__title", "Contact")
	if o.Message != "" {
		h.elem("p", "contact__message", o.Message)
	}
	h.raw(`<div class="contact__owner card">`)
	if o.Name != "" {
		h.elem("h3", "", o.Name)
	}
	phone(h, o.Phone)
	email(h, o.Email)
	if o.Address != "" {
		h.elem("address", "", o.Address)
	}
	h.raw("</div>")
	if len(o.Emergency) > 0 {
		h.elem("h3", "", "Emergency contacts")
		h.raw(`<ul class="contact__emergency">`)
		for _, c := range o.Emergency {
			h.raw(`<li class="card">`)
			h.elem("strong", "", c.Name)
			if c.Relationship != "" {
				h.elem("span", "contact__relationship", c.Relationship)
			}
			phone(h, c.Phone)
			email(h, c.Email)
			h.raw("</li>")
		}
		h.raw("</ul>")
	}
	h.raw("</div></section>")
}

func phone(h *html, number string) {
	if number == "" {
		return
	}
	h.raw(`<a class="contact__phone"`)
	h.attr("href", "tel:"+filters.TelLink(number))
	h.raw(">")
	h.text(number)
	h.raw("</a>")
}

func email(h *html, addr string) {
	if addr == "" {
		return
	}
	h.raw(`<a class="contact__email"`)
	h.attr("href", "mailto:"+addr)
	h.raw(">")
	h.text(addr)
	h.raw("</a>")
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
