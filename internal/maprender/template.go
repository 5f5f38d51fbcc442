// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package maprender

// pageTemplate is the complete Leaflet page. Marker icons come from the
// pointhi/leaflet-color-markers set, keyed by the color the builder chose.
const pageTemplate = `<!DOCTYPE html>
<html lang="{{.LangCode}}">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Lang.LayerTickets}}</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
        integrity="sha256-p4NxAoSBhSIRZqisX3duwnFkaDLHKdYWRNJF73pqupc=" crossorigin="">
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/leaflet.fullscreen@3.0.2/Control.FullScreen.css">
  <style>
    html, body { height: 100%; margin: 0; }
    #map { height: 100%; width: 100%; }
    .warning-box {
      position: absolute;
      bottom: 30px;
      left: 10px;
      z-index: 1000;
      max-width: 420px;
      max-height: 40%;
      overflow-y: auto;
      background: rgba(255, 255, 255, 0.92);
      border: 2px solid #c0392b;
      border-radius: 4px;
      padding: 8px 12px;
      font: 13px/1.5 sans-serif;
    }
    .warning-box h4 { margin: 0 0 6px 0; color: #c0392b; font-size: 13px; }
    .warning-box ul { margin: 0; padding-left: 18px; }
    .logo {
      position: absolute;
      top: 10px;
      right: 10px;
      z-index: 1000;
      max-height: 60px;
    }
    .generated-at {
      position: absolute;
      bottom: 2px;
      right: 2px;
      z-index: 1000;
      background: rgba(255, 255, 255, 0.8);
      padding: 2px 6px;
      font: 11px sans-serif;
      color: #555;
    }
  </style>
</head>
<body>
  <div id="map"></div>
  {{if .Warnings}}
  <div class="warning-box">
    <h4>{{.Lang.WarningHead}}</h4>
    <ul>
      {{range .Warnings}}<li>{{.}}</li>
      {{end}}
    </ul>
  </div>
  {{end}}
  {{if .LogoURL}}<img class="logo" src="{{.LogoURL}}" alt="">{{end}}
  <div class="generated-at">{{.Lang.GeneratedAt}} {{.GeneratedAt}}</div>

  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
          integrity="sha256-20nQCchB9co0qIjJZRGuk2/Z9VM+kNiyxNV1lvTlZBo=" crossorigin=""></script>
  <script src="https://cdn.jsdelivr.net/npm/leaflet.fullscreen@3.0.2/Control.FullScreen.js"></script>
  <script>
    var map = L.map('map', {
      center: [{{.CenterLat}}, {{.CenterLon}}],
      zoom: {{.Zoom}},
      fullscreenControl: true,
      fullscreenControlOptions: {
        position: 'topleft',
        title: {{.Lang.Fullscreen}},
        titleCancel: {{.Lang.FullscreenExit}}
      }
    });

    L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
      maxZoom: 19,
      attribution: '&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors'
    }).addTo(map);

    var iconBase = 'https://raw.githubusercontent.com/pointhi/leaflet-color-markers/master/img/';
    var shadowUrl = 'https://cdnjs.cloudflare.com/ajax/libs/leaflet/1.9.4/images/marker-shadow.png';
    function coloredIcon(color) {
      return new L.Icon({
        iconUrl: iconBase + 'marker-icon-2x-' + color + '.png',
        shadowUrl: shadowUrl,
        iconSize: [25, 41],
        iconAnchor: [12, 41],
        popupAnchor: [1, -34],
        shadowSize: [41, 41]
      });
    }

    var markers = {{.MarkersJSON}};
    var ticketLayer = L.layerGroup();
    markers.forEach(function (m) {
      L.marker([m.lat, m.lon], { icon: coloredIcon(m.color) })
        .bindPopup(m.popup, { maxWidth: 340 })
        .bindTooltip(m.tooltip)
        .addTo(ticketLayer);
    });
    ticketLayer.addTo(map);

    L.control.layers(null, { {{.Lang.LayerTickets}}: ticketLayer }).addTo(map);

    {{if .FitBounds}}
    map.fitBounds(markers.map(function (m) { return [m.lat, m.lon]; }), { padding: [40, 40] });
    {{end}}
  </script>
</body>
</html>
`
